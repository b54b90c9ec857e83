package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintHashers(t *testing.T) {
	argon, err := NewArgon2idHasher()
	require.NoError(t, err)

	hashers := map[string]FingerprintHasher{
		"bcrypt":   NewBcryptHasher(MinBcryptCost),
		"argon2id": argon,
	}

	// Two tokens that only differ after byte 72.
	prefix := strings.Repeat("a", 100)
	tokenA := prefix + "A"
	tokenB := prefix + "B"

	for name, hasher := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := hasher.Hash(tokenA)
			require.NoError(t, err)
			assert.NotEqual(t, tokenA, hash)

			assert.True(t, hasher.Verify(tokenA, hash))
			assert.False(t, hasher.Verify(tokenB, hash))
			assert.False(t, hasher.Verify(tokenA, "not-a-hash"))
			assert.False(t, hasher.Verify(tokenA, ""))

			again, err := hasher.Hash(tokenA)
			require.NoError(t, err)
			assert.NotEqual(t, hash, again, "fingerprints must be salted")
		})
	}
}

func TestNewBcryptHasher_CostClamp(t *testing.T) {
	assert.Equal(t, MinBcryptCost, NewBcryptHasher(4).(*bcryptHasher).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).(*bcryptHasher).cost)
}

func TestNewFingerprintHasher(t *testing.T) {
	t.Run("Success_Bcrypt", func(t *testing.T) {
		hasher, err := NewFingerprintHasher("bcrypt", 10)
		require.NoError(t, err)
		assert.IsType(t, &bcryptHasher{}, hasher)
	})

	t.Run("Success_DefaultIsBcrypt", func(t *testing.T) {
		hasher, err := NewFingerprintHasher("", 10)
		require.NoError(t, err)
		assert.IsType(t, &bcryptHasher{}, hasher)
	})

	t.Run("Success_Argon2id", func(t *testing.T) {
		hasher, err := NewFingerprintHasher("argon2id", 0)
		require.NoError(t, err)
		assert.IsType(t, &argon2idHasher{}, hasher)
	})

	t.Run("Error_Unknown", func(t *testing.T) {
		_, err := NewFingerprintHasher("md5", 10)
		assert.ErrorContains(t, err, "unsupported fingerprint algorithm")
	})
}
