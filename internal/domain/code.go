package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewIdeaCode generates a human-readable idea code:
// PREFIX-<last 6 digits of unix ms>-<3 random base36 chars>.
// Collisions are negligible but not impossible; the store retries
// generation on a unique violation.
func NewIdeaCode(prefix string) string {
	ms := time.Now().UnixMilli()
	suffix := fmt.Sprintf("%06d", ms%1_000_000)

	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the timestamp so the code stays well-formed.
		copy(buf, suffix)
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}

	return fmt.Sprintf("%s-%s-%s", prefix, suffix, b.String())
}
