package service

import (
	"crypto/subtle"
	"encoding/base64"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
)

// secretAAD binds stored login secrets to their purpose so a ciphertext produced for
// anything else under the same key never opens here.
var secretAAD = []byte("gatekeeper/login-secret")

// CredentialCipher provides reversible encryption of login secrets. Output is
// base64(nonce || ciphertext || tag) and differs on every call for the same input.
type CredentialCipher struct {
	aead AEAD
}

// NewCredentialCipher creates a CredentialCipher on top of an AEAD.
func NewCredentialCipher(aead AEAD) *CredentialCipher {
	return &CredentialCipher{aead: aead}
}

// EncryptSecret encrypts a login secret for storage.
func (c *CredentialCipher) EncryptSecret(plaintext string) (string, error) {
	ciphertext, nonce, err := c.aead.Encrypt([]byte(plaintext), secretAAD)
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(nonce)+len(ciphertext))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptSecret reverses EncryptSecret. Any malformed input or key mismatch yields
// ErrDecryptionFailed.
func (c *CredentialCipher) DecryptSecret(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) <= nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := c.aead.Decrypt(sealed[nonceSize:], sealed[:nonceSize], secretAAD)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// SecretMatches decrypts the stored ciphertext and compares it with candidate in
// constant time.
func (c *CredentialCipher) SecretMatches(ciphertext, candidate string) (bool, error) {
	stored, err := c.DecryptSecret(ciphertext)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}
