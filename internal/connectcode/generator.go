// Package connectcode generates and normalizes human-shareable connect codes.
package connectcode

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
)

// MaxAttempts bounds the retry loop in GenerateUnique. The keyspace is on the
// order of tens of millions, so exhausting this cap indicates a bug rather
// than organic collision pressure.
const MaxAttempts = 10

const suffixLength = 4

// ErrExhaustedAttempts is returned when GenerateUnique fails to find a free
// code within MaxAttempts. Callers must treat it as fatal for the request and
// log it loudly.
var ErrExhaustedAttempts = errors.New("connectcode: exhausted generation attempts")

// suffixAlphabet excludes visually ambiguous characters (0/O, 1/I/L).
var suffixAlphabet = []byte("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

// words is the fixed vocabulary for the leading segment. All entries are four
// uppercase letters so every code is exactly nine characters long.
var words = []string{
	"BASS", "BEAT", "DROP", "ECHO", "FUNK", "GAIN", "HYPE", "JACK",
	"KICK", "LOOP", "MIXX", "NOTE", "OPUS", "PEAK", "RIFF", "SPIN",
	"TAPE", "VIBE", "WAVE", "WOOF",
}

// ExistsFunc reports whether the given normalized code is already bound to an
// active show. It must only consider live entries; codes of ended shows are free.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generate returns a fresh WORD-XXXX code. It is not collision-checked; use
// GenerateUnique when the code must be unique among active shows.
func Generate() (string, error) {
	idx, err := randomIndices(1 + suffixLength)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(words[idx[0]%len(words)])
	b.WriteByte('-')
	for _, n := range idx[1:] {
		b.WriteByte(suffixAlphabet[n%len(suffixAlphabet)])
	}
	return b.String(), nil
}

// GenerateUnique draws codes until exists reports a free one, up to MaxAttempts.
// Returns ErrExhaustedAttempts when every candidate collided.
func GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, Normalize(code))
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhaustedAttempts
}

// Normalize uppercases the code and trims surrounding whitespace. It is
// idempotent and must be applied to both generated and user-submitted codes
// before any comparison.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func randomIndices(n int) ([]int, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, b := range raw {
		out[i] = int(b)
	}
	return out, nil
}
