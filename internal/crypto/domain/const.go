// Package domain holds the algorithms, errors and key handling helpers shared by the
// credential cipher.
package domain

// Algorithm represents the AEAD algorithm protecting stored login secrets.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES is not hardware accelerated.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the key length in bytes required by every supported algorithm.
const KeySize = 32
