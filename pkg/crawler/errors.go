package crawler

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrPermissionDenied is returned when robots.txt is missing or forbids crawling the site.
	ErrPermissionDenied = errors.New("crawling not permitted")

	// ErrSitemapUnavailable is returned when sitemap checking is enabled and sitemap.xml cannot be read.
	ErrSitemapUnavailable = errors.New("sitemap unavailable")

	// ErrFetchFailed matches every fetch that did not produce a 2xx response.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrPageLimit is returned when the configured page limit would be exceeded.
	ErrPageLimit = errors.New("page limit reached")

	// ErrInvalidBaseURL is returned for base URLs that are not absolute http(s) URLs.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// FetchError reports a non-success status during a crawl
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrFetchFailed) match a FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
