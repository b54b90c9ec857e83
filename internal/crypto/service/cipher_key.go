package service

import (
	"context"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
)

// LoadCipherKey decodes the configured cipher key. When kmsKeyURI is set the decoded
// value is a KMS ciphertext and is unwrapped through the keeper first. The caller owns
// the returned key and should Zero it once the AEAD is built.
func LoadCipherKey(
	ctx context.Context,
	kmsService KMSService,
	encodedKey, kmsKeyURI string,
) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyEncoding
	}

	if kmsKeyURI == "" {
		if len(decoded) != cryptoDomain.KeySize {
			cryptoDomain.Zero(decoded)
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return decoded, nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap cipher key with KMS: %w", err)
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return key, nil
}

// NewCredentialCipherFromKey builds a CredentialCipher for alg and zeroes key afterwards.
func NewCredentialCipherFromKey(
	manager AEADManager,
	key []byte,
	alg cryptoDomain.Algorithm,
) (*CredentialCipher, error) {
	defer cryptoDomain.Zero(key)

	aead, err := manager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return NewCredentialCipher(aead), nil
}
