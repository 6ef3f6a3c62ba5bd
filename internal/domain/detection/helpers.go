package detection

import (
	"strings"
)

// senderDomain extracts the lowercased domain from an email address,
// tolerating display-name forms like `Support <x@y.com>`
func senderDomain(sender string) string {
	if i := strings.LastIndex(sender, "<"); i >= 0 {
		sender = strings.TrimRight(sender[i+1:], "> ")
	}
	parts := strings.Split(sender, "@")
	if len(parts) != 2 {
		return "" // Malformed email address
	}
	return strings.ToLower(strings.TrimSuffix(parts[1], "."))
}

// containsAny checks if text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// similarity returns the percentage similarity of two strings based on
// Levenshtein edit distance
func similarity(s1, s2 string) float64 {
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 100.0
	}
	distance := levenshteinDistance(s1, s2)
	return (1.0 - float64(distance)/float64(maxLen)) * 100
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	// Base cases: if either string is empty, distance is the other string's length
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create DP table: matrix[i][j] = distance between s1[0:i] and s2[0:j]
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	// Fill DP table using recurrence relation
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			// Cost of substitution: 0 if characters match, 1 otherwise
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
