package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject_BrandsMasked(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		brands  []string
	}{
		{
			name:    "Single brand",
			subject: "Your Microsoft account needs attention",
			brands:  []string{"Microsoft"},
		},
		{
			name:    "Case-insensitive match",
			subject: "your MICROSOFT password expired",
			brands:  []string{"Microsoft"},
		},
		{
			name:    "Multiple brands",
			subject: "PayPal and Microsoft security notice",
			brands:  []string{"Microsoft", "PayPal"},
		},
		{
			name:    "Multi-word brand",
			subject: "Bank of America alert for your account",
			brands:  []string{"Bank of America"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Subject(tt.subject, tt.brands)

			lower := strings.ToLower(out)
			for _, b := range tt.brands {
				assert.NotContains(t, lower, strings.ToLower(b),
					"sanitized subject must not contain brand %q", b)
			}
			assert.Contains(t, out, "[brand]")
		})
	}
}

func TestSubject_PIIMasked(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{
			name:     "Email address",
			subject:  "Message for john.doe@example.com waiting",
			expected: "Message for [email] waiting",
		},
		{
			name:     "Digit runs",
			subject:  "Invoice 48213 due, call 5551234567",
			expected: "Invoice [number] due, call [number]",
		},
		{
			name:     "Short numbers kept",
			subject:  "Your 2 packages arrive in 24 hours",
			expected: "Your 2 packages arrive in 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Subject(tt.subject, nil))
		})
	}
}

func TestSubject_StructurePreserved(t *testing.T) {
	out := Subject("Your Microsoft password expires today", []string{"Microsoft"})
	assert.Equal(t, "Your [brand] password expires today", out)
}

func TestSubject_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Subject("", nil))
	assert.Equal(t, "", Subject("", []string{"Microsoft"}))
	assert.NotPanics(t, func() {
		Subject("hello", []string{""})
	})
}
