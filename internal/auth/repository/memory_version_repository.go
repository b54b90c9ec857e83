package repository

import (
	"context"
	"sync"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// MemoryVersionRepository keeps stamps in process memory.
type MemoryVersionRepository struct {
	mu       sync.RWMutex
	versions map[authDomain.CredentialClass]map[string]string
}

// Get returns the stored stamp of principalID for class.
func (m *MemoryVersionRepository) Get(
	_ context.Context,
	class authDomain.CredentialClass,
	principalID string,
) (string, error) {
	if _, err := versionTable(class); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	version, ok := m.versions[class][principalID]
	if !ok {
		return "", authDomain.ErrVersionNotFound
	}
	return version, nil
}

// Set overwrites the stamp of principalID for class.
func (m *MemoryVersionRepository) Set(
	_ context.Context,
	class authDomain.CredentialClass,
	principalID, version string,
) error {
	if _, err := versionTable(class); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.versions[class] == nil {
		m.versions[class] = make(map[string]string)
	}
	m.versions[class][principalID] = version
	return nil
}

// SetAll overwrites the stamps of principalID for every class in versions under one lock.
func (m *MemoryVersionRepository) SetAll(
	_ context.Context,
	principalID string,
	versions map[authDomain.CredentialClass]string,
) error {
	classes, err := stampClasses(versions)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, class := range classes {
		if m.versions[class] == nil {
			m.versions[class] = make(map[string]string)
		}
		m.versions[class][principalID] = versions[class]
	}
	return nil
}

// NewMemoryVersionRepository creates an empty in-memory version repository.
func NewMemoryVersionRepository() *MemoryVersionRepository {
	return &MemoryVersionRepository{
		versions: make(map[authDomain.CredentialClass]map[string]string),
	}
}
