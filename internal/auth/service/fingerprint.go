package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// MinBcryptCost is the lowest accepted bcrypt work factor.
const MinBcryptCost = 10

// bcryptHasher fingerprints tokens with bcrypt. bcrypt only reads the first 72 bytes
// and every JWT shares its header prefix, so the token is reduced to its SHA-256 hex
// digest first.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt FingerprintHasher. Costs below MinBcryptCost are raised.
func NewBcryptHasher(cost int) FingerprintHasher {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(token), h.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash refresh token")
	}
	return string(hash), nil
}

func (h *bcryptHasher) Verify(token, fingerprint string) bool {
	return bcrypt.CompareHashAndPassword([]byte(fingerprint), prehash(token)) == nil
}

func prehash(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}

// argon2idHasher fingerprints tokens with Argon2id in PHC format.
type argon2idHasher struct {
	hasher *pwdhash.PasswordHasher
}

// NewArgon2idHasher creates an Argon2id FingerprintHasher using the interactive policy.
func NewArgon2idHasher() (FingerprintHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create argon2id hasher")
	}
	return &argon2idHasher{hasher: hasher}, nil
}

func (h *argon2idHasher) Hash(token string) (string, error) {
	hash, err := h.hasher.Hash([]byte(token))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash refresh token")
	}
	return hash, nil
}

func (h *argon2idHasher) Verify(token, fingerprint string) bool {
	ok, err := h.hasher.Verify([]byte(token), fingerprint)
	if err != nil {
		return false
	}
	return ok
}

// NewFingerprintHasher selects a FingerprintHasher by name ("bcrypt" or "argon2id").
func NewFingerprintHasher(algorithm string, bcryptCost int) (FingerprintHasher, error) {
	switch algorithm {
	case "", "bcrypt":
		return NewBcryptHasher(bcryptCost), nil
	case "argon2id":
		return NewArgon2idHasher()
	default:
		return nil, fmt.Errorf("unsupported fingerprint algorithm: %s", algorithm)
	}
}
