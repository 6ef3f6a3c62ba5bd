package storage

import (
	"crypto/rand"
	"fmt"
)

// Short id format: "TF-" plus 8 characters from an alphabet with the
// ambiguous glyphs (0/O, 1/I/L) removed, since these ids are meant to be
// read aloud and typed. 31^8 combinations keep collisions
// rare enough that the bounded retry loop almost never iterates.
const (
	shortIDPrefix   = "TF-"
	shortIDLength   = 8
	shortIDAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// generateShortID returns a random human-shareable identifier
func generateShortID() (string, error) {
	buf := make([]byte, shortIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, shortIDLength)
	for i, b := range buf {
		out[i] = shortIDAlphabet[int(b)%len(shortIDAlphabet)]
	}
	return shortIDPrefix + string(out), nil
}
