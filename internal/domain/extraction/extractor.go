package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/phishguard/threatfeed/internal/domain"
)

// Extraction is defensive by design: malformed or absent fields contribute
// an empty set, never an error. The worst outcome of a garbled email is a
// submission with fewer indicators.

var (
	urlRegex      = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"')\]]+`)
	emailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	bareHostRegex = regexp.MustCompile(`(?i)\b(?:[a-z0-9][a-z0-9-]*\.)+[a-z]{2,24}\b`)
	hexRegex      = regexp.MustCompile(`\b[a-fA-F0-9]{32,64}\b`)
	ipv4Regex     = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	ipv6Regex     = regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){2,7}[0-9a-fA-F]{1,4}\b`)
	phoneRegex    = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
)

// Local risk weights per indicator type (0-100). File hashes are the
// strongest signal (direct malware reference), contact channels the weakest.
var riskWeights = map[domain.IndicatorType]int{
	domain.IndicatorURL:      70,
	domain.IndicatorDomain:   60,
	domain.IndicatorIP:       65,
	domain.IndicatorFileHash: 80,
	domain.IndicatorEmail:    40,
	domain.IndicatorPhone:    30,
}

// Extract parses an analysis record into indicator candidates, deduplicated
// within this single email by (type, normalized value). Output order is
// deterministic: candidates are grouped by type in a fixed sequence and
// sorted by value within each type, so re-running extraction on the same
// email always yields the same slice.
func Extract(rec domain.AnalysisRecord) []domain.IndicatorCandidate {
	c := newCollector()

	// URLs first; each URL also contributes its host as a domain candidate.
	for _, raw := range urlRegex.FindAllString(rec.Body, -1) {
		norm, host, ok := normalizeURL(raw)
		if !ok {
			continue
		}
		c.add(domain.IndicatorURL, norm, snippet(rec.Body, raw))
		if host != "" {
			c.add(domain.IndicatorDomain, host, snippet(rec.Body, raw))
		}
	}

	// Sender domain. The sender address itself is the submission context,
	// not a body observable, so only its domain is recorded.
	if d := normalizeDomain(senderDomain(rec.Sender)); d != "" {
		c.add(domain.IndicatorDomain, d, rec.Sender)
	}

	// Bare host tokens: domains mentioned in text without a scheme. URLs
	// and email addresses are cut out first so their hosts only enter
	// through the dedicated paths above.
	stripped := emailRegex.ReplaceAllString(urlRegex.ReplaceAllString(rec.Body, " "), " ")
	for _, raw := range bareHostRegex.FindAllString(stripped, -1) {
		if d := normalizeBareHost(raw); d != "" {
			c.add(domain.IndicatorDomain, d, snippet(rec.Body, raw))
		}
	}

	for _, raw := range ipv4Regex.FindAllString(rec.Body, -1) {
		if ip, ok := normalizeIP(raw); ok {
			c.add(domain.IndicatorIP, ip, snippet(rec.Body, raw))
		}
	}
	for _, raw := range ipv6Regex.FindAllString(rec.Body, -1) {
		if ip, ok := normalizeIP(raw); ok {
			c.add(domain.IndicatorIP, ip, snippet(rec.Body, raw))
		}
	}

	hashSources := rec.Body
	for _, v := range rec.Headers {
		hashSources += "\n" + v
	}
	for _, raw := range hexRegex.FindAllString(hashSources, -1) {
		if h, ok := normalizeFileHash(raw); ok {
			c.add(domain.IndicatorFileHash, h, "")
		}
	}

	for _, raw := range emailRegex.FindAllString(rec.Body, -1) {
		c.add(domain.IndicatorEmail, strings.ToLower(raw), snippet(rec.Body, raw))
	}

	for _, raw := range phoneRegex.FindAllString(rec.Body, -1) {
		if p, ok := normalizePhone(raw); ok {
			c.add(domain.IndicatorPhone, p, snippet(rec.Body, raw))
		}
	}

	return c.candidates()
}

// typeRank fixes the cross-type ordering of extracted candidates.
var typeRank = map[domain.IndicatorType]int{
	domain.IndicatorURL:      0,
	domain.IndicatorDomain:   1,
	domain.IndicatorIP:       2,
	domain.IndicatorFileHash: 3,
	domain.IndicatorEmail:    4,
	domain.IndicatorPhone:    5,
}

// collector accumulates candidates and drops in-email duplicates by
// (type, normalized value)
type collector struct {
	seen  map[string]bool
	items []domain.IndicatorCandidate
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(t domain.IndicatorType, value, context string) {
	if value == "" {
		return
	}
	key := string(t) + "|" + value
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, domain.IndicatorCandidate{
		Type:       t,
		Value:      value,
		Context:    context,
		RiskWeight: riskWeights[t],
	})
}

func (c *collector) candidates() []domain.IndicatorCandidate {
	out := make([]domain.IndicatorCandidate, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return typeRank[out[i].Type] < typeRank[out[j].Type]
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// snippet returns a short window of source text around the first occurrence
// of match, for display context
func snippet(text, match string) string {
	const window = 30
	idx := strings.Index(text, match)
	if idx < 0 {
		return ""
	}
	start := idx - window
	if start < 0 {
		start = 0
	}
	end := idx + len(match) + window
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}
