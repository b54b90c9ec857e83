package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisVersionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SetThenGet", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")

		require.NoError(t, repo.Set(ctx, authDomain.AccessClass, "p1", "v1"))

		version, err := repo.Get(ctx, authDomain.AccessClass, "p1")
		require.NoError(t, err)
		assert.Equal(t, "v1", version)

		stored, err := mr.Get("gk:access:p1")
		require.NoError(t, err)
		assert.Equal(t, "v1", stored)
		assert.Zero(t, mr.TTL("gk:access:p1"))
	})

	t.Run("Success_ClassesAreIndependent", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")

		require.NoError(t, repo.Set(ctx, authDomain.AccessClass, "p1", "a1"))
		require.NoError(t, repo.Set(ctx, authDomain.RefreshClass, "p1", "r1"))
		require.NoError(t, repo.Set(ctx, authDomain.AccessClass, "p1", "a2"))

		access, err := repo.Get(ctx, authDomain.AccessClass, "p1")
		require.NoError(t, err)
		refresh, err := repo.Get(ctx, authDomain.RefreshClass, "p1")
		require.NoError(t, err)

		assert.Equal(t, "a2", access)
		assert.Equal(t, "r1", refresh)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")

		_, err := repo.Get(ctx, authDomain.RefreshClass, "ghost")
		assert.ErrorIs(t, err, authDomain.ErrVersionNotFound)
	})

	t.Run("Error_ServerDown", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")
		mr.Close()

		_, err := repo.Get(ctx, authDomain.AccessClass, "p1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, authDomain.ErrVersionNotFound)

		err = repo.Set(ctx, authDomain.AccessClass, "p1", "v1")
		assert.ErrorContains(t, err, "failed to set version")
	})

	t.Run("Success_SetAllWritesEveryClass", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")
		require.NoError(t, repo.Set(ctx, authDomain.AccessClass, "p1", "a1"))

		err := repo.SetAll(ctx, "p1", map[authDomain.CredentialClass]string{
			authDomain.AccessClass:  "a2",
			authDomain.RefreshClass: "r2",
		})
		require.NoError(t, err)

		access, err := mr.Get("gk:access:p1")
		require.NoError(t, err)
		refresh, err := mr.Get("gk:refresh:p1")
		require.NoError(t, err)
		assert.Equal(t, "a2", access)
		assert.Equal(t, "r2", refresh)
	})

	t.Run("Error_SetAllUnknownClassWritesNothing", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")

		err := repo.SetAll(ctx, "p1", map[authDomain.CredentialClass]string{
			authDomain.AccessClass:           "a2",
			authDomain.CredentialClass("id"): "x",
		})
		require.Error(t, err)
		assert.False(t, mr.Exists("gk:access:p1"))
	})

	t.Run("Error_SetAllServerDown", func(t *testing.T) {
		mr, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")
		mr.Close()

		err := repo.SetAll(ctx, "p1", map[authDomain.CredentialClass]string{authDomain.AccessClass: "a2"})
		assert.ErrorContains(t, err, "failed to set versions")
	})

	t.Run("Error_UnknownClass", func(t *testing.T) {
		_, client := newTestRedis(t)
		repo := NewRedisVersionRepository(client, "gk")

		err := repo.Set(ctx, authDomain.CredentialClass("id"), "p1", "v1")
		assert.ErrorContains(t, err, "unknown credential class")
	})
}
