package security

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateAPIKey_FormatAndParse(t *testing.T) {
	display, prefix, secret, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if !strings.HasPrefix(display, "slk_") {
		t.Errorf("display key %q missing service prefix", display)
	}
	if len(prefix) != 12 {
		t.Errorf("prefix length = %d, want 12", len(prefix))
	}
	gotPrefix, gotSecret, err := ParseAPIKey(display)
	if err != nil {
		t.Fatalf("ParseAPIKey: %v", err)
	}
	if gotPrefix != prefix || gotSecret != secret {
		t.Errorf("ParseAPIKey = (%q, %q), want (%q, %q)", gotPrefix, gotSecret, prefix, secret)
	}
}

func TestParseAPIKey_Invalid(t *testing.T) {
	cases := []string{
		"",
		"slk_",
		"slk_short_secret",
		"other_abcdefghijkl_secret",
		"slk_ABCDEFGHIJKL_secret", // uppercase prefix not in alphabet
		"slk_abcdefghijkl_",
	}
	for _, in := range cases {
		if _, _, err := ParseAPIKey(in); !errors.Is(err, ErrInvalidKeyFormat) {
			t.Errorf("ParseAPIKey(%q): want ErrInvalidKeyFormat, got %v", in, err)
		}
	}
}

func TestHasher_APIKeySecretRoundTrip(t *testing.T) {
	h := NewHasher(4) // min cost for test speed
	_, _, secret, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	hash, err := h.Hash([]byte(secret))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(hash, []byte(secret)); err != nil {
		t.Errorf("Compare correct secret: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong")); err == nil {
		t.Error("Compare accepted wrong secret")
	}
}

func TestNewSigningSecret(t *testing.T) {
	a, err := NewSigningSecret()
	if err != nil {
		t.Fatalf("NewSigningSecret: %v", err)
	}
	b, err := NewSigningSecret()
	if err != nil {
		t.Fatalf("NewSigningSecret: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("secret length = %d, want 32", len(a))
	}
	if string(a) == string(b) {
		t.Error("two signing secrets are equal")
	}
}
