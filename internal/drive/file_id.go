package drive

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	pathIDPattern = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)
)

// ExtractFileID returns the Drive file id of a share link, or "" when link has none.
//
// Recognized forms:
//
//	https://drive.google.com/file/d/{id}/view
//	https://drive.google.com/open?id={id}
//	https://drive.google.com/uc?id={id}&export=download
//	https://docs.google.com/document/d/{id}/edit
//	{id} (bare, at least 20 characters)
func ExtractFileID(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if bareIDPattern.MatchString(link) {
		return link
	}

	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host != "google.com" && !strings.HasSuffix(host, ".google.com") {
		return ""
	}

	if m := pathIDPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if id := u.Query().Get("id"); id != "" && isIDChars(id) {
		return id
	}
	return ""
}

func isIDChars(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
