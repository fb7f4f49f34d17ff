package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	apiKeyServicePrefix = "slk"
	apiKeyPrefixLength  = 12
	apiKeySecretBytes   = 32
)

// ErrInvalidKeyFormat is returned when an API key does not have the
// slk_<prefix>_<secret> shape.
var ErrInvalidKeyFormat = errors.New("invalid API key format")

var apiKeyAlphabet = []byte("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateAPIKey returns a new endpoint API key in display form
// (slk_<prefix>_<secret>), the lookup prefix, and the secret half. The display
// key is shown to the operator exactly once; only a hash of the secret is
// stored (see Hasher).
func GenerateAPIKey() (displayKey, prefix, secret string, err error) {
	prefixBytes := make([]byte, apiKeyPrefixLength)
	if _, err := rand.Read(prefixBytes); err != nil {
		return "", "", "", err
	}
	for i := range prefixBytes {
		prefixBytes[i] = apiKeyAlphabet[int(prefixBytes[i])%len(apiKeyAlphabet)]
	}
	prefix = string(prefixBytes)

	raw := make([]byte, apiKeySecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", "", err
	}
	secret = hex.EncodeToString(raw)

	return apiKeyServicePrefix + "_" + prefix + "_" + secret, prefix, secret, nil
}

// ParseAPIKey splits a display key into its lookup prefix and secret half.
func ParseAPIKey(displayKey string) (prefix, secret string, err error) {
	if !strings.HasPrefix(displayKey, apiKeyServicePrefix+"_") {
		return "", "", ErrInvalidKeyFormat
	}
	rest := strings.TrimPrefix(displayKey, apiKeyServicePrefix+"_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || len(parts[0]) != apiKeyPrefixLength || parts[1] == "" {
		return "", "", ErrInvalidKeyFormat
	}
	for _, c := range parts[0] {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return "", "", ErrInvalidKeyFormat
		}
	}
	return parts[0], parts[1], nil
}

// NewSigningSecret returns a fresh 256-bit endpoint signing secret. Generated
// at endpoint registration and never re-derivable from the API key.
func NewSigningSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
