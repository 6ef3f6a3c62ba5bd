package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_BrandLookalikeSender(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name         string
		sender       string
		expectBrands []string
	}{
		{
			name:         "Lookalike label micr0soft",
			sender:       "security@micr0soft-support.tk",
			expectBrands: []string{"Microsoft"},
		},
		{
			name:         "Lookalike paypa1",
			sender:       "billing@paypa1.com",
			expectBrands: []string{"PayPal"},
		},
		{
			name:         "Exact canonical domain is the real brand",
			sender:       "account-security-noreply@microsoft.com",
			expectBrands: []string{},
		},
		{
			name:         "Subdomain of canonical domain is the real brand",
			sender:       "noreply@mail.paypal.com",
			expectBrands: []string{},
		},
		{
			name:         "Unrelated domain",
			sender:       "newsletter@example.com",
			expectBrands: []string{},
		},
		{
			name:         "Malformed sender",
			sender:       "not an address",
			expectBrands: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detector.Detect(tt.sender, "", "")
			assert.Equal(t, tt.expectBrands, result.Brands)
		})
	}
}

func TestDetector_BrandAliasInText(t *testing.T) {
	detector := NewDetector()

	result := detector.Detect("x@example.com",
		"Action required on your Office 365 mailbox",
		"Your OneDrive storage is full. Sign in to free up space.")

	assert.Equal(t, []string{"Microsoft"}, result.Brands)
}

func TestDetector_Tactics(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name          string
		subject       string
		body          string
		expectTactics []string
	}{
		{
			name:          "Urgency and credentials",
			subject:       "Your password expires today",
			body:          "Verify your account immediately or it will be suspended.",
			expectTactics: []string{"urgency", "credential-request"},
		},
		{
			name:          "BEC style financial pressure",
			subject:       "Quick request",
			body:          "I need a wire transfer processed. Confidential, on my behalf of the CEO.",
			expectTactics: []string{"financial-request", "impersonation-authority"},
		},
		{
			name:          "Attachment lure",
			subject:       "Invoice",
			body:          "Please see attached invoice and enable macros to view.",
			expectTactics: []string{"financial-request", "attachment-lure"},
		},
		{
			name:          "Benign text",
			subject:       "Lunch on Friday?",
			body:          "Want to grab lunch at noon?",
			expectTactics: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detector.Detect("x@example.com", tt.subject, tt.body)
			assert.Equal(t, tt.expectTactics, result.Tactics)
		})
	}
}

func TestDetector_DeterministicOrder(t *testing.T) {
	detector := NewDetector()

	// Mentions appear in the text in the reverse of reference-list order;
	// output must still follow the reference list.
	subject := "PayPal and Microsoft notice"
	body := "Your paypal account and your microsoft account both need attention. Sign in now."

	first := detector.Detect("x@example.com", subject, body)
	second := detector.Detect("x@example.com", subject, body)

	assert.Equal(t, []string{"Microsoft", "PayPal"}, first.Brands)
	assert.Equal(t, first, second)
}

func TestDetector_EmptyInput(t *testing.T) {
	detector := NewDetector()

	result := detector.Detect("", "", "")

	assert.NotNil(t, result.Brands)
	assert.NotNil(t, result.Tactics)
	assert.Empty(t, result.Brands)
	assert.Empty(t, result.Tactics)
}
