package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// sanitizeText strips all markup from short free-text fields.
func sanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// sanitizeHTML keeps the formatting tags allowed in blog bodies.
func sanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}
