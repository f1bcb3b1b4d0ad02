package dictionary

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the site origin
	BaseURL = "https://qipedc.moet.gov.vn"

	// DictionaryPath is the paginated listing page
	DictionaryPath = "/dictionary"

	// VideosPath is the prefix all entry videos are served under
	VideosPath = "/videos"
)

// ListingURL returns the URL of the dictionary listing page.
func ListingURL() string {
	return BaseURL + DictionaryPath
}

// VideoURL constructs the absolute video URL for a site video code.
func VideoURL(code string) string {
	return fmt.Sprintf("%s%s/%s.mp4", BaseURL, VideosPath, code)
}

// ResolveURL normalizes a possibly-relative reference against a base URL.
// Already-absolute references are returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}
	return b.ResolveReference(r).String(), nil
}
