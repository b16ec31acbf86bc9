// Package vault encrypts third-party credential tokens at rest with
// AES-256-GCM. Ciphertexts are self-contained: a random 12-byte nonce is
// prepended to the sealed payload and the whole value is base64-encoded.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/gramolapp/gramola/internal/common"
)

const keySize = 32

// Vault performs symmetric encryption of credential strings. The secret is
// process-wide read-only state, set once at boot and validated lazily on
// first use.
type Vault struct {
	secret []byte
}

func New(secret []byte) *Vault {
	return &Vault{secret: secret}
}

func (v *Vault) checkSecret() error {
	if len(v.secret) != keySize {
		return fmt.Errorf("%w: vault secret must be exactly %d bytes", common.ErrConfiguration, keySize)
	}
	return nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext and returns a base64 ciphertext. A blank input
// returns a blank output without touching the cipher.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if err := v.checkSecret(); err != nil {
		return "", err
	}

	aead, err := v.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A blank input returns a blank output without
// touching the cipher.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	if err := v.checkSecret(); err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %w", err)
	}

	aead, err := v.aead()
	if err != nil {
		return "", err
	}

	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("invalid ciphertext: too short")
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}
