// Package fingerprint builds the deduplication keys of the threat feed: the
// campaign fingerprint that identifies a distinct threat, and the per
// indicator value hash shared across entries.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/phishguard/threatfeed/internal/domain"
)

// Compute returns the 256-bit campaign fingerprint as lowercase hex.
//
// Contract: two submissions with the same normalized indicator set, brand
// list and threat type produce the same fingerprint regardless of the order
// anything was extracted or detected in. Sorting happens here, explicitly,
// and nowhere else; callers must never rely on their own iteration order.
func Compute(candidates []domain.IndicatorCandidate, brands []string, threatType domain.ThreatType) string {
	sum := sha256.Sum256([]byte(canonicalString(candidates, brands, threatType)))
	return hex.EncodeToString(sum[:])
}

// canonicalString serializes the fingerprint inputs into a stable text
// form: sorted type:value pairs, then sorted brands, then the threat type,
// with distinct separators between sections so field boundaries cannot
// collide.
func canonicalString(candidates []domain.IndicatorCandidate, brands []string, threatType domain.ThreatType) string {
	pairs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		pairs = append(pairs, string(c.Type)+":"+c.Value)
	}
	sort.Strings(pairs)

	sortedBrands := make([]string, len(brands))
	copy(sortedBrands, brands)
	sort.Strings(sortedBrands)

	var b strings.Builder
	b.WriteString(strings.Join(pairs, "|"))
	b.WriteString("\n")
	b.WriteString(strings.Join(sortedBrands, "|"))
	b.WriteString("\n")
	b.WriteString(string(threatType))
	return b.String()
}

// IndicatorValueHash returns the global content hash for one indicator.
// It is keyed on the normalized value plus its type, so the same string
// seen as a domain and as a URL hashes differently.
func IndicatorValueHash(t domain.IndicatorType, normalizedValue string) string {
	sum := sha256.Sum256([]byte(string(t) + ":" + normalizedValue))
	return hex.EncodeToString(sum[:])
}
