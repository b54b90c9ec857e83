package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

func TestSessionUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", pair.Username)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		identity, err := env.guard.Check(ctx, bearer(pair.AccessToken), []authDomain.Role{authDomain.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, admin.ID.String(), identity.PrincipalID)
		assert.Equal(t, authDomain.RoleAdmin, identity.Role)

		fingerprint := env.admins.fingerprint(admin.ID)
		require.NotNil(t, fingerprint)
		assert.NotContains(t, *fingerprint, pair.RefreshToken)
	})

	t.Run("Error_UnknownUsername", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.sessions.Login(ctx, "ghost", "s3cret")

		assert.ErrorIs(t, err, adminDomain.ErrAdminNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		_, err := env.sessions.Login(ctx, "alice", "S3cret")

		assert.ErrorIs(t, err, authDomain.ErrWrongSecret)
		assert.Nil(t, env.admins.fingerprint(admin.ID))
	})

	t.Run("Error_UndecryptableSecret", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		admin.Password = "bm90IGEgY2lwaGVydGV4dA=="
		env.admins.put(admin)

		_, err := env.sessions.Login(ctx, "alice", "s3cret")

		assert.ErrorIs(t, err, authDomain.ErrInvalidSecretFormat)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Success_SecondLoginRevokesFirst", func(t *testing.T) {
		env := newTestEnv(t)
		env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		first, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)
		second, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		_, err = env.guard.Check(ctx, bearer(first.AccessToken), nil)
		assert.ErrorIs(t, err, authDomain.ErrCredentialRevoked)

		_, err = env.sessions.Refresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrRefreshMismatch)

		_, err = env.guard.Check(ctx, bearer(second.AccessToken), nil)
		assert.NoError(t, err)
	})

	t.Run("Success_ConcurrentLoginsLeaveOneValidToken", func(t *testing.T) {
		env := newTestEnv(t)
		env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		const attempts = 8
		pairs := make([]*authDomain.TokenPair, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pair, err := env.sessions.Login(ctx, "alice", "s3cret")
				assert.NoError(t, err)
				pairs[i] = pair
			}()
		}
		wg.Wait()

		valid := 0
		for _, pair := range pairs {
			require.NotNil(t, pair)
			if _, err := env.guard.Check(ctx, bearer(pair.AccessToken), nil); err == nil {
				valid++
			}
		}
		assert.Equal(t, 1, valid)
	})

	t.Run("Error_VersionStoreUnavailable", func(t *testing.T) {
		env := newTestEnv(t)
		env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		versions := &mockVersionStore{}
		staged := map[authDomain.CredentialClass]string{
			authDomain.AccessClass:  "a1",
			authDomain.RefreshClass: "r1",
		}
		versions.On("Stage", []authDomain.CredentialClass{authDomain.AccessClass, authDomain.RefreshClass}).
			Return(staged).
			Once()
		versions.On("Commit", mock.Anything, mock.Anything, staged).
			Return(errors.New("connection refused")).
			Once()

		sessions := NewSessionUseCase(
			database.NewNoopTxManager(),
			env.admins,
			versions,
			env.issuer,
			env.cipher,
			authService.NewBcryptHasher(authService.MinBcryptCost),
			authService.NewPrincipalLocker(),
		)

		_, err := sessions.Login(ctx, "alice", "s3cret")

		assert.EqualError(t, err, "connection refused")
		assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
		versions.AssertExpectations(t)
	})

	t.Run("Error_FingerprintWriteKeepsPreviousSession", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		principalID := admin.ID.String()

		first, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)
		accessBefore, err := env.versions.Get(ctx, principalID, authDomain.AccessClass)
		require.NoError(t, err)
		refreshBefore, err := env.versions.Get(ctx, principalID, authDomain.RefreshClass)
		require.NoError(t, err)

		env.admins.fingerprintErr = errors.New("disk full")
		_, err = env.sessions.Login(ctx, "alice", "s3cret")
		require.EqualError(t, err, "disk full")
		env.admins.fingerprintErr = nil

		accessAfter, err := env.versions.Get(ctx, principalID, authDomain.AccessClass)
		require.NoError(t, err)
		refreshAfter, err := env.versions.Get(ctx, principalID, authDomain.RefreshClass)
		require.NoError(t, err)
		assert.Equal(t, accessBefore, accessAfter)
		assert.Equal(t, refreshBefore, refreshAfter)

		_, err = env.guard.Check(ctx, bearer(first.AccessToken), nil)
		assert.NoError(t, err)
		_, err = env.sessions.Refresh(ctx, first.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("Error_PasswordChangedWhileWaitingForLock", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		_, unlock := env.locker.LockContext(ctx, admin.ID.String())

		looked := make(chan struct{})
		var once sync.Once
		env.admins.afterGetByUsername = func() { once.Do(func() { close(looked) }) }

		result := make(chan error, 1)
		go func() {
			_, err := env.sessions.Login(ctx, "alice", "s3cret")
			result <- err
		}()

		<-looked
		changed, err := env.cipher.EncryptSecret("n3w-secret")
		require.NoError(t, err)
		stored, err := env.admins.Get(ctx, admin.ID)
		require.NoError(t, err)
		stored.Password = changed
		env.admins.put(stored)
		unlock()

		assert.ErrorIs(t, <-result, authDomain.ErrWrongSecret)
		assert.Nil(t, env.admins.fingerprint(admin.ID))
	})
}

func TestSessionUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotatesAccessOnly", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		principalID := admin.ID.String()

		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		accessBefore, err := env.versions.Get(ctx, principalID, authDomain.AccessClass)
		require.NoError(t, err)
		refreshBefore, err := env.versions.Get(ctx, principalID, authDomain.RefreshClass)
		require.NoError(t, err)
		fingerprintBefore := env.admins.fingerprint(admin.ID)

		output, err := env.sessions.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		accessAfter, err := env.versions.Get(ctx, principalID, authDomain.AccessClass)
		require.NoError(t, err)
		refreshAfter, err := env.versions.Get(ctx, principalID, authDomain.RefreshClass)
		require.NoError(t, err)

		assert.NotEqual(t, accessBefore, accessAfter)
		assert.Equal(t, refreshBefore, refreshAfter)
		assert.Equal(t, fingerprintBefore, env.admins.fingerprint(admin.ID))

		_, err = env.guard.Check(ctx, bearer(pair.AccessToken), nil)
		assert.ErrorIs(t, err, authDomain.ErrCredentialRevoked)

		identity, err := env.guard.Check(ctx, bearer(output.AccessToken), nil)
		require.NoError(t, err)
		assert.Equal(t, accessAfter, identity.AccessVersion)
		assert.Equal(t, refreshAfter, identity.RefreshVersion)

		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("Error_AccessTokenPresented", func(t *testing.T) {
		env := newTestEnv(t)
		env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		_, err = env.sessions.Refresh(ctx, pair.AccessToken)

		assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		env := newTestEnv(t)
		env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		env.clock.Advance(25 * time.Hour)

		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	})

	t.Run("Error_DeletedPrincipal", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		env.admins.mu.Lock()
		delete(env.admins.admins, admin.ID)
		env.admins.mu.Unlock()

		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, adminDomain.ErrAdminNotFound)
	})

	t.Run("Error_RefreshVersionSuperseded", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		_, err = env.versions.Rotate(ctx, admin.ID.String(), authDomain.RefreshClass)
		require.NoError(t, err)

		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrCredentialRevoked)
	})

	t.Run("Error_NonUUIDSubject", func(t *testing.T) {
		env := newTestEnv(t)
		token, err := env.issuer.IssueRefreshToken("not-a-uuid", authDomain.RoleAdmin, "v1")
		require.NoError(t, err)

		_, err = env.sessions.Refresh(ctx, token)
		assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
	})
}

func TestSessionUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RevokesEverything", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		require.NoError(t, env.sessions.Logout(ctx, admin.ID))

		_, err = env.guard.Check(ctx, bearer(pair.AccessToken), nil)
		assert.ErrorIs(t, err, authDomain.ErrCredentialRevoked)

		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, authDomain.ErrCredentialRevoked)

		assert.Nil(t, env.admins.fingerprint(admin.ID))
	})

	t.Run("Error_FingerprintWriteKeepsSession", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)
		pair, err := env.sessions.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)

		env.admins.fingerprintErr = errors.New("disk full")
		require.EqualError(t, env.sessions.Logout(ctx, admin.ID), "disk full")
		env.admins.fingerprintErr = nil

		_, err = env.guard.Check(ctx, bearer(pair.AccessToken), nil)
		assert.NoError(t, err)
		_, err = env.sessions.Refresh(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("Success_Idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		admin := env.addAdmin(t, "alice", "s3cret", authDomain.RoleAdmin)

		assert.NoError(t, env.sessions.Logout(ctx, admin.ID))
		assert.NoError(t, env.sessions.Logout(ctx, admin.ID))
	})

	t.Run("Error_UnknownPrincipal", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.sessions.Logout(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, adminDomain.ErrAdminNotFound)
	})
}
