package detection

import (
	"strings"
)

// brand describes one known impersonation target: the display name we
// report, the canonical domains the real organization sends from, and the
// lowercase aliases we look for in email text.
type brand struct {
	name    string
	domains []string
	aliases []string
}

// brandList is the maintained reference list of impersonation targets.
// Order matters: detection output preserves this order, so appending new
// brands at the end keeps existing fingerprints stable.
var brandList = []brand{
	{
		name:    "Microsoft",
		domains: []string{"microsoft.com", "office.com", "outlook.com", "live.com"},
		aliases: []string{"microsoft", "office 365", "office365", "outlook", "onedrive", "sharepoint", "teams"},
	},
	{
		name:    "PayPal",
		domains: []string{"paypal.com"},
		aliases: []string{"paypal"},
	},
	{
		name:    "Apple",
		domains: []string{"apple.com", "icloud.com"},
		aliases: []string{"apple id", "icloud", "app store"},
	},
	{
		name:    "Google",
		domains: []string{"google.com", "gmail.com"},
		aliases: []string{"google", "gmail", "google drive", "google docs"},
	},
	{
		name:    "Amazon",
		domains: []string{"amazon.com"},
		aliases: []string{"amazon", "amazon prime", "aws"},
	},
	{
		name:    "Netflix",
		domains: []string{"netflix.com"},
		aliases: []string{"netflix"},
	},
	{
		name:    "DocuSign",
		domains: []string{"docusign.com", "docusign.net"},
		aliases: []string{"docusign"},
	},
	{
		name:    "DHL",
		domains: []string{"dhl.com"},
		aliases: []string{"dhl"},
	},
	{
		name:    "FedEx",
		domains: []string{"fedex.com"},
		aliases: []string{"fedex"},
	},
	{
		name:    "Bank of America",
		domains: []string{"bankofamerica.com"},
		aliases: []string{"bank of america", "bankofamerica"},
	},
	{
		name:    "Chase",
		domains: []string{"chase.com"},
		aliases: []string{"chase bank", "jpmorgan chase"},
	},
}

// lookalikeThreshold is the label similarity above which a sender-domain
// token counts as a brand lookalike. 80% catches single-character swaps on
// short names (micr0soft vs microsoft = 88.9%) without flagging unrelated
// words.
const lookalikeThreshold = 80.0

// minLookalikeLen guards against short tokens where one edit produces a
// huge similarity swing ("tk" vs "uk")
const minLookalikeLen = 5

// matchesText reports whether any alias appears in the lowercased text
func (b brand) matchesText(text string) bool {
	return containsAny(text, b.aliases)
}

// matchesSenderDomain checks the sender's domain for brand lookalikes.
// Exact canonical domains (or subdomains of them) are the real brand and
// never flagged. Otherwise each label of the sender domain, split on dots
// and hyphens, is compared against the brand's name tokens by edit
// distance: "micr0soft-support.tk" splits into micr0soft/support/tk, and
// micr0soft sits one edit from microsoft.
func (b brand) matchesSenderDomain(sdomain string) bool {
	if sdomain == "" {
		return false
	}
	for _, d := range b.domains {
		if sdomain == d || strings.HasSuffix(sdomain, "."+d) {
			return false
		}
	}

	tokens := splitDomainTokens(sdomain)
	names := brandNameTokens(b)
	for _, tok := range tokens {
		if len(tok) < minLookalikeLen {
			continue
		}
		for _, name := range names {
			if len(name) < minLookalikeLen {
				continue
			}
			if tok == name || similarity(tok, name) >= lookalikeThreshold {
				return true
			}
		}
	}
	return false
}

// brandNameTokens collects the comparable word forms of a brand: its
// lowercased name and the first label of each canonical domain
func brandNameTokens(b brand) []string {
	tokens := []string{strings.ToLower(strings.ReplaceAll(b.name, " ", ""))}
	for _, d := range b.domains {
		if i := strings.Index(d, "."); i > 0 {
			tokens = append(tokens, d[:i])
		}
	}
	return tokens
}

// splitDomainTokens breaks a domain into its word-like labels
func splitDomainTokens(d string) []string {
	return strings.FieldsFunc(strings.ToLower(d), func(r rune) bool {
		return r == '.' || r == '-'
	})
}
