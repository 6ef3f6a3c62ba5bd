package fingerprint

import (
	"testing"

	"github.com/phishguard/threatfeed/internal/domain"
	"github.com/stretchr/testify/assert"
)

func candidate(t domain.IndicatorType, v string) domain.IndicatorCandidate {
	return domain.IndicatorCandidate{Type: t, Value: v}
}

func TestCompute_OrderInvariant(t *testing.T) {
	a := candidate(domain.IndicatorURL, "http://evil.tk/verify")
	b := candidate(domain.IndicatorDomain, "evil.tk")
	c := candidate(domain.IndicatorIP, "203.0.113.7")

	fp1 := Compute([]domain.IndicatorCandidate{a, b, c}, []string{"Microsoft", "PayPal"}, domain.ThreatCredentialPhishing)
	fp2 := Compute([]domain.IndicatorCandidate{c, a, b}, []string{"PayPal", "Microsoft"}, domain.ThreatCredentialPhishing)

	assert.Equal(t, fp1, fp2, "permuting indicators or brands must not change the fingerprint")
}

func TestCompute_DistinctInputsDistinctDigests(t *testing.T) {
	base := []domain.IndicatorCandidate{candidate(domain.IndicatorDomain, "evil.tk")}

	fp := Compute(base, []string{"Microsoft"}, domain.ThreatCredentialPhishing)

	tests := []struct {
		name  string
		other string
	}{
		{
			name:  "Different indicator set",
			other: Compute([]domain.IndicatorCandidate{candidate(domain.IndicatorDomain, "other.tk")}, []string{"Microsoft"}, domain.ThreatCredentialPhishing),
		},
		{
			name:  "Different brand list",
			other: Compute(base, []string{"PayPal"}, domain.ThreatCredentialPhishing),
		},
		{
			name:  "Different threat type",
			other: Compute(base, []string{"Microsoft"}, domain.ThreatBEC),
		},
		{
			name:  "Same value different indicator type",
			other: Compute([]domain.IndicatorCandidate{candidate(domain.IndicatorURL, "evil.tk")}, []string{"Microsoft"}, domain.ThreatCredentialPhishing),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, fp, tt.other)
		})
	}
}

func TestCompute_FixedWidthHex(t *testing.T) {
	fp := Compute(nil, nil, domain.ThreatUnknown)

	assert.Len(t, fp, 64, "SHA-256 hex digest")
	assert.Regexp(t, "^[0-9a-f]{64}$", fp)
}

func TestCompute_EmptyInputsAreLegal(t *testing.T) {
	fp1 := Compute(nil, nil, domain.ThreatUnknown)
	fp2 := Compute([]domain.IndicatorCandidate{}, []string{}, domain.ThreatUnknown)

	assert.Equal(t, fp1, fp2, "nil and empty inputs canonicalize identically")
}

func TestIndicatorValueHash(t *testing.T) {
	h1 := IndicatorValueHash(domain.IndicatorDomain, "evil.tk")
	h2 := IndicatorValueHash(domain.IndicatorDomain, "evil.tk")
	h3 := IndicatorValueHash(domain.IndicatorURL, "evil.tk")

	assert.Equal(t, h1, h2, "same type and value always hash the same")
	assert.NotEqual(t, h1, h3, "type participates in the hash")
	assert.Regexp(t, "^[0-9a-f]{64}$", h1)
}
