// Package pagination computes page bounds for list endpoints
package pagination

import "github.com/karaokeos/backend/internal/models"

// DefaultWindowRadius is the number of page links shown on each side of the current page
const DefaultWindowRadius = 2

// Pager holds clamped page bounds for a result set.
// All inputs are coerced into valid ranges, so a Pager is always usable.
type Pager struct {
	total   int
	page    int
	perPage int
	pages   int
}

// New creates a pager for total items, the requested page and the page size
func New(total, page, perPage int) Pager {
	if total < 0 {
		total = 0
	}
	if perPage < 1 {
		perPage = 1
	}

	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	return Pager{
		total:   total,
		page:    page,
		perPage: perPage,
		pages:   pages,
	}
}

func (p Pager) Total() int { return p.total }
func (p Pager) Page() int { return p.page }
func (p Pager) PerPage() int { return p.perPage }
func (p Pager) Pages() int { return p.pages }

// Offset returns the number of rows to skip for the current page
func (p Pager) Offset() int {
	return (p.page - 1) * p.perPage
}

// Limit returns the number of rows to fetch for the current page
func (p Pager) Limit() int {
	return p.perPage
}

func (p Pager) HasPrev() bool { return p.page > 1 }
func (p Pager) HasNext() bool { return p.page < p.pages }

// Window returns the page numbers within radius of the current page, bounded by [1, pages]
func (p Pager) Window(radius int) []int {
	if radius < 0 {
		radius = 0
	}

	start := max(p.page-radius, 1)
	end := min(p.page+radius, p.pages)

	window := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		window = append(window, n)
	}
	return window
}

// Meta converts the pager into the pagination block of list responses
func (p Pager) Meta() models.Pagination {
	return models.Pagination{
		Page:    p.page,
		PerPage: p.perPage,
		Pages:   p.pages,
		Total:   p.total,
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
		Window:  p.Window(DefaultWindowRadius),
	}
}
