package notion

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ParsePageURL extracts the block ID from a browseable page URL and returns
// it in canonical dashed form. A bare block ID, with or without dashes, is
// accepted as well.
//
// Browseable URLs end in an optional slug followed by the 32 hex characters
// of the block ID, e.g. "https://www.notion.so/acme/Home-0123...cdef".
func ParsePageURL(pageURL string) (string, error) {
	trimmed := strings.TrimSpace(pageURL)
	if id, err := uuid.Parse(trimmed); err == nil {
		return id.String(), nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPageURL, pageURL)
	}

	// The ID is the last dash-separated part of the last path segment.
	segment := path.Base(parsed.Path)
	if i := strings.LastIndex(segment, "-"); i >= 0 {
		segment = segment[i+1:]
	}

	id, err := uuid.Parse(segment)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPageURL, pageURL)
	}
	return id.String(), nil
}

// BrowseableURL returns the address a browser opens for the given block ID.
// Browseable URLs carry the ID without dashes.
func (c *Client) BrowseableURL(id string) string {
	return c.baseURL + "/" + strings.ReplaceAll(id, "-", "")
}
