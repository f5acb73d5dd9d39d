package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// CoverArtClient fetches release artwork from the Cover Art Archive
type CoverArtClient struct {
	api     apiClient
	baseURL string
}

// NewCoverArtClient creates a Cover Art Archive client rooted at baseURL (e.g. "https://coverartarchive.org")
func NewCoverArtClient(baseURL string, httpClient *http.Client, userAgent string, logger *zap.Logger) *CoverArtClient {
	return &CoverArtClient{
		api:     newAPIClient(httpClient, userAgent, nil, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type coverArtResponse struct {
	Images []coverArtImage `json:"images"`
}

type coverArtImage struct {
	Front      bool              `json:"front"`
	Image      string            `json:"image"`
	Thumbnails map[string]string `json:"thumbnails"`
}

// FrontCover returns the front cover URL of a MusicBrainz release, or "" when there is none
func (c *CoverArtClient) FrontCover(ctx context.Context, releaseID string) string {
	if releaseID == "" {
		return ""
	}

	var resp coverArtResponse
	if !c.api.getJSON(ctx, fmt.Sprintf("%s/release/%s", c.baseURL, url.PathEscape(releaseID)), &resp) {
		return ""
	}

	for _, img := range resp.Images {
		if !img.Front {
			continue
		}
		for _, size := range []string{"500", "large", "250", "small"} {
			if thumb := img.Thumbnails[size]; thumb != "" {
				return thumb
			}
		}
		return img.Image
	}
	return ""
}
