package usecase

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authRepository "github.com/allisson/gatekeeper/internal/auth/repository"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
	"github.com/allisson/gatekeeper/internal/database"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryAdminRepository is an in-memory AdminRepository returning copies.
type memoryAdminRepository struct {
	mu     sync.Mutex
	admins map[uuid.UUID]adminDomain.Admin

	// afterGetByUsername runs after a username lookup, outside the repository lock.
	afterGetByUsername func()
	// fingerprintErr fails every UpdateRefreshTokenHash when set.
	fingerprintErr error
}

func newMemoryAdminRepository() *memoryAdminRepository {
	return &memoryAdminRepository{admins: make(map[uuid.UUID]adminDomain.Admin)}
}

func (r *memoryAdminRepository) put(admin *adminDomain.Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[admin.ID] = *admin
}

func (r *memoryAdminRepository) Get(_ context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[adminID]
	if !ok {
		return nil, adminDomain.ErrAdminNotFound
	}
	return &admin, nil
}

func (r *memoryAdminRepository) GetByUsername(_ context.Context, username string) (*adminDomain.Admin, error) {
	admin, err := r.findByUsername(username)
	if err == nil && r.afterGetByUsername != nil {
		r.afterGetByUsername()
	}
	return admin, err
}

func (r *memoryAdminRepository) findByUsername(username string) (*adminDomain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Username == username {
			return &admin, nil
		}
	}
	return nil, adminDomain.ErrAdminNotFound
}

func (r *memoryAdminRepository) UpdateRefreshTokenHash(_ context.Context, adminID uuid.UUID, hash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fingerprintErr != nil {
		return r.fingerprintErr
	}
	admin, ok := r.admins[adminID]
	if !ok {
		return adminDomain.ErrAdminNotFound
	}
	admin.RefreshTokenHash = hash
	r.admins[adminID] = admin
	return nil
}

func (r *memoryAdminRepository) fingerprint(adminID uuid.UUID) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[adminID].RefreshTokenHash
}

// mockVersionStore is a testify mock of VersionStore for failure paths.
type mockVersionStore struct {
	mock.Mock
}

func (m *mockVersionStore) Get(
	ctx context.Context,
	principalID string,
	class authDomain.CredentialClass,
) (string, error) {
	args := m.Called(ctx, principalID, class)
	return args.String(0), args.Error(1)
}

func (m *mockVersionStore) Stage(classes ...authDomain.CredentialClass) map[authDomain.CredentialClass]string {
	args := m.Called(classes)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[authDomain.CredentialClass]string)
}

func (m *mockVersionStore) Commit(
	ctx context.Context,
	principalID string,
	staged map[authDomain.CredentialClass]string,
) error {
	args := m.Called(ctx, principalID, staged)
	return args.Error(0)
}

// testEnv wires the session lifecycle on real services and in-memory storage.
type testEnv struct {
	clock    *fakeClock
	admins   *memoryAdminRepository
	versions *authService.VersionStore
	issuer   *authService.CredentialIssuer
	cipher   *cryptoService.CredentialCipher
	locker   *authService.PrincipalLocker
	sessions SessionUseCase
	guard    AuthorizationGuard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer, err := authService.NewCredentialIssuer(authService.IssuerConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     2 * time.Hour,
		RefreshTTL:    24 * time.Hour,
	}, authService.WithClock(clock.Now))
	require.NoError(t, err)

	key := make([]byte, cryptoDomain.KeySize)
	_, err = rand.Read(key)
	require.NoError(t, err)
	cipher, err := cryptoService.NewCredentialCipherFromKey(cryptoService.NewAEADManager(), key, cryptoDomain.AESGCM)
	require.NoError(t, err)

	admins := newMemoryAdminRepository()
	versions := authService.NewVersionStore(authRepository.NewMemoryVersionRepository())
	locker := authService.NewPrincipalLocker()

	return &testEnv{
		clock:    clock,
		admins:   admins,
		versions: versions,
		issuer:   issuer,
		cipher:   cipher,
		locker:   locker,
		sessions: NewSessionUseCase(
			database.NewNoopTxManager(),
			admins,
			versions,
			issuer,
			cipher,
			authService.NewBcryptHasher(authService.MinBcryptCost),
			locker,
		),
		guard: NewAuthorizationGuard(issuer, versions),
	}
}

func (e *testEnv) addAdmin(t *testing.T, username, secret string, role authDomain.Role) *adminDomain.Admin {
	t.Helper()
	password, err := e.cipher.EncryptSecret(secret)
	require.NoError(t, err)

	now := e.clock.Now()
	admin := &adminDomain.Admin{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  username,
		Password:  password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.admins.put(admin)
	return admin
}

func bearer(token string) string {
	return "Bearer " + token
}
