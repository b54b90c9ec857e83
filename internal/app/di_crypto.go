package app

import (
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// CredentialCipher returns the cipher protecting stored login secrets.
// The key is decoded (and KMS-unwrapped when configured) exactly once.
func (c *Container) CredentialCipher() (*cryptoService.CredentialCipher, error) {
	var err error
	c.credentialCipherInit.Do(func() {
		c.credentialCipher, err = c.initCredentialCipher()
		if err != nil {
			c.initErrors["credentialCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialCipher"]; exists {
		return nil, storedErr
	}
	return c.credentialCipher, nil
}

func (c *Container) initCredentialCipher() (*cryptoService.CredentialCipher, error) {
	key, err := cryptoService.LoadCipherKey(c.ctx, c.KMSService(), c.config.CipherKey, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load cipher key: %w", err)
	}

	cipher, err := cryptoService.NewCredentialCipherFromKey(
		c.AEADManager(),
		key,
		cryptoDomain.Algorithm(c.config.CipherAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential cipher: %w", err)
	}

	c.Logger().Info("credential cipher ready",
		slog.String("algorithm", c.config.CipherAlgorithm),
		slog.Bool("kms", c.config.KMSKeyURI != ""))
	return cipher, nil
}
