// Package dedupe fingerprints card content so imports can tell new cards
// apart from ones already in the database.
package dedupe

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize cleans and joins a card's question and answer. Each part is
// lowercased, trimmed, and has its line endings normalized, so cosmetic
// edits in a deck file do not change the fingerprint.
func Normalize(question, answer string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	// Joined with a newline so the field boundary survives: "questionanswer"
	// must not collide with "question" + "answer".
	return strings.Join([]string{normalizePart(question), normalizePart(answer)}, "\n")
}

// Fingerprint returns the SHA-256 hash of the normalized card content as a
// hex string.
func Fingerprint(question, answer string) string {
	normalized := Normalize(question, answer)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}
