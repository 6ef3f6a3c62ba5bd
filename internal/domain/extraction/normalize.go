package extraction

import (
	"net"
	"net/url"
	"strings"
)

// Normalization rules are part of the public contract: the same raw value
// must always normalize to the same stored form, because the normalized
// form feeds both the per-email dedup key and the global value hash.

// normalizeURL lower-cases the scheme and host of a URL but leaves the path
// and query untouched (paths are case-sensitive on many servers). Returns
// the normalized URL, its host as a domain candidate, and false if the
// value does not parse as an absolute http(s) URL.
func normalizeURL(raw string) (normalized, host string, ok bool) {
	raw = strings.TrimRight(raw, ".,;:!?")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", false
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), normalizeDomain(u.Hostname()), true
}

// normalizeDomain lower-cases a domain and strips any trailing dot. Values
// without at least one interior dot are rejected (bare words, hostnames
// with no TLD).
func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(d), "."))
	if !strings.Contains(d, ".") {
		return ""
	}
	return d
}

// fileExtensions are common attachment suffixes that would otherwise pass
// for a two-label hostname ("invoice.pdf")
var fileExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "zip": true, "rar": true, "exe": true,
	"js": true, "html": true, "htm": true, "php": true, "png": true,
	"jpg": true, "jpeg": true, "gif": true, "txt": true, "csv": true,
}

// normalizeBareHost applies domain normalization to a schemeless host token
// and rejects tokens whose final label is a known file extension
func normalizeBareHost(raw string) string {
	d := normalizeDomain(raw)
	if d == "" {
		return ""
	}
	if i := strings.LastIndex(d, "."); fileExtensions[d[i+1:]] {
		return ""
	}
	return d
}

// normalizeIP validates a candidate against IPv4/IPv6 literal syntax via
// net.ParseIP; invalid literals are dropped silently
func normalizeIP(raw string) (string, bool) {
	ip := net.ParseIP(raw)
	if ip == nil {
		return "", false
	}
	return ip.String(), true
}

// normalizeFileHash accepts hex strings of the known digest widths
// (MD5 32, SHA-1 40, SHA-256 64) and lower-cases them
func normalizeFileHash(raw string) (string, bool) {
	switch len(raw) {
	case 32, 40, 64:
		return strings.ToLower(raw), true
	}
	return "", false
}

// normalizePhone strips formatting separators and keeps a leading +.
// Digit counts outside 10-15 are rejected; shorter runs are far more likely
// to be order numbers or dates than dialable numbers.
func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}
	return b.String(), true
}

// senderDomain extracts the domain part of an email address, tolerating
// display-name forms like `Support <x@y.com>`
func senderDomain(sender string) string {
	if i := strings.LastIndex(sender, "<"); i >= 0 {
		sender = strings.TrimRight(sender[i+1:], "> ")
	}
	parts := strings.Split(sender, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
