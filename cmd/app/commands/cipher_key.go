package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
)

// RunCreateCipherKey generates a random 32-byte key for the credential cipher and prints
// it as CIPHER_KEY. When kmsKeyURI is set the key is wrapped by the KMS keeper first and
// KMS_KEY_URI is printed alongside; the server unwraps it at startup.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunCreateCipherKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate cipher key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	if kmsKeyURI == "" {
		logger.Warn("cipher key printed in plaintext; prefer --kms-key-uri outside development")
		_, _ = fmt.Fprintln(writer, "# Credential cipher configuration")
		_, _ = fmt.Fprintf(writer, "CIPHER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt cipher key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Credential cipher configuration (KMS mode)")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "CIPHER_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
