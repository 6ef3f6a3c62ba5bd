// Package sanitize rewrites subject lines for public display, masking brand
// names and obvious PII while keeping the sentence readable.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	numberRegex = regexp.MustCompile(`\d{3,}`)
	spaceRegex  = regexp.MustCompile(`\s+`)
)

// Subject returns a display-safe version of a subject line. Every detected
// brand name is replaced case-insensitively with "[brand]", email addresses
// with "[email]" and digit runs of three or more with "[number]". Empty
// input returns an empty string, never an error.
//
// Guarantee: the result never contains any string from brands verbatim.
func Subject(subject string, brands []string) string {
	if subject == "" {
		return ""
	}

	out := subject
	for _, b := range brands {
		if b == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(b))
		if err != nil {
			continue
		}
		out = re.ReplaceAllString(out, "[brand]")
	}

	out = emailRegex.ReplaceAllString(out, "[email]")
	out = numberRegex.ReplaceAllString(out, "[number]")

	return strings.TrimSpace(spaceRegex.ReplaceAllString(out, " "))
}
