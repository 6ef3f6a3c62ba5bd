// Package classify assigns a coarse threat category to a submission from
// its detected brands, tactics and indicator type mix.
package classify

import (
	"github.com/phishguard/threatfeed/internal/domain"
)

// ThreatType is a total function: every combination of inputs maps to a
// category, falling through to ThreatUnknown rather than failing. The rule
// cascade is ordered by specificity: malware evidence outranks credential
// lures, which outrank pure financial fraud.
func ThreatType(brands, tactics []string, candidates []domain.IndicatorCandidate) domain.ThreatType {
	has := tagSet(tactics)
	types := typeSet(candidates)

	// A file hash or an attachment lure means a payload is involved.
	if types[domain.IndicatorFileHash] || has["attachment-lure"] {
		return domain.ThreatMalwareDelivery
	}

	// Credential harvesting: explicit credential phrasing, or a known brand
	// plus a link to click.
	if has["credential-request"] {
		return domain.ThreatCredentialPhishing
	}
	if len(brands) > 0 && (types[domain.IndicatorURL] || types[domain.IndicatorDomain]) {
		return domain.ThreatCredentialPhishing
	}

	// BEC reads like an instruction from authority, not a branded lure.
	if has["financial-request"] && has["impersonation-authority"] {
		return domain.ThreatBEC
	}

	if has["financial-request"] {
		return domain.ThreatAdvanceFeeScam
	}

	return domain.ThreatUnknown
}

func tagSet(tags []string) map[string]bool {
	s := make(map[string]bool, len(tags))
	for _, t := range tags {
		s[t] = true
	}
	return s
}

func typeSet(candidates []domain.IndicatorCandidate) map[domain.IndicatorType]bool {
	s := make(map[domain.IndicatorType]bool, len(candidates))
	for _, c := range candidates {
		s[c.Type] = true
	}
	return s
}
