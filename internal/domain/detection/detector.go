package detection

import (
	"strings"
)

// Detector scans email text for brand impersonation signals and
// social-engineering tactics. It is a pure function of its inputs: no I/O,
// no shared state, safe to run concurrently across submissions.
//
// Both output lists are deterministic. Brands and tactics are emitted in
// reference-list order, so the same email always produces the same
// sequence regardless of where in the text a signal appears. The
// fingerprint layer sorts again before hashing; the order here only
// affects display.
type Detector struct {
	brands  []brand
	tactics []tacticGroup
}

// NewDetector creates a detector backed by the maintained reference lists
// of impersonation targets and tactic keyword groups
func NewDetector() *Detector {
	return &Detector{
		brands:  brandList,
		tactics: tacticGroups,
	}
}

// Result holds the detector's output for one email
type Result struct {
	Brands  []string
	Tactics []string
}

// Detect scans the combined subject+body text and the sender address.
// Empty inputs yield empty (non-nil) lists.
func (d *Detector) Detect(sender, subject, body string) Result {
	text := strings.ToLower(subject + " " + body)
	sdomain := senderDomain(sender)

	return Result{
		Brands:  d.matchBrands(text, sdomain),
		Tactics: d.matchTactics(text),
	}
}

func (d *Detector) matchBrands(text, sdomain string) []string {
	matched := make([]string, 0)
	for _, b := range d.brands {
		if b.matchesText(text) || b.matchesSenderDomain(sdomain) {
			matched = append(matched, b.name)
		}
	}
	return matched
}

func (d *Detector) matchTactics(text string) []string {
	matched := make([]string, 0)
	for _, g := range d.tactics {
		if containsAny(text, g.keywords) {
			matched = append(matched, g.tag)
		}
	}
	return matched
}
