package vault

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gramolapp/gramola/internal/common"
)

func testSecret() []byte {
	return bytes.Repeat([]byte("k"), 32)
}

func TestRoundTrip(t *testing.T) {
	v := New(testSecret())

	inputs := []string{
		"BQDmjzKqcXyz",
		"a",
		"token with spaces and ünicode ñ",
	}

	for _, in := range inputs {
		ct, err := v.Encrypt(in)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", in, err)
		}
		if ct == in {
			t.Fatalf("ciphertext equals plaintext for %q", in)
		}
		pt, err := v.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if pt != in {
			t.Fatalf("round trip mismatch: got %q want %q", pt, in)
		}
	}
}

func TestBlankInputIsNoop(t *testing.T) {
	// Blank values bypass the cipher entirely, so even a vault with no
	// secret must accept them.
	v := New(nil)

	ct, err := v.Encrypt("")
	if err != nil || ct != "" {
		t.Fatalf("Encrypt(\"\") = %q, %v; want \"\", nil", ct, err)
	}
	pt, err := v.Decrypt("")
	if err != nil || pt != "" {
		t.Fatalf("Decrypt(\"\") = %q, %v; want \"\", nil", pt, err)
	}
}

func TestBadSecretIsConfigurationError(t *testing.T) {
	for _, secret := range [][]byte{nil, []byte("short"), bytes.Repeat([]byte("x"), 33)} {
		v := New(secret)
		if _, err := v.Encrypt("payload"); !errors.Is(err, common.ErrConfiguration) {
			t.Fatalf("secret len %d: want ErrConfiguration, got %v", len(secret), err)
		}
		if _, err := v.Decrypt("payload"); !errors.Is(err, common.ErrConfiguration) {
			t.Fatalf("secret len %d: want ErrConfiguration, got %v", len(secret), err)
		}
	}
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	v := New(testSecret())

	if _, err := v.Decrypt("not base64 !!!"); err == nil {
		t.Fatal("expected error for non-base64 input")
	}
	if _, err := v.Decrypt("YWJj"); err == nil { // decodes to 3 bytes, shorter than a nonce
		t.Fatal("expected error for truncated ciphertext")
	}
}

func TestEncrypt_NoncesDiffer(t *testing.T) {
	v := New(testSecret())

	a, err := v.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	b, err := v.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if a == b {
		t.Fatal("two encryptions of the same input produced identical ciphertexts")
	}
}
