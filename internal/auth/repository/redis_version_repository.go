package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// RedisVersionRepository stores stamps under "<prefix>:<class>:<principal>" without expiry.
type RedisVersionRepository struct {
	client redis.UniversalClient
	prefix string
}

func (r *RedisVersionRepository) key(class authDomain.CredentialClass, principalID string) string {
	return r.prefix + ":" + string(class) + ":" + principalID
}

// Get returns the stored stamp of principalID for class.
func (r *RedisVersionRepository) Get(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID string,
) (string, error) {
	if _, err := versionTable(class); err != nil {
		return "", err
	}

	version, err := r.client.Get(ctx, r.key(class, principalID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", authDomain.ErrVersionNotFound
		}
		return "", apperrors.Wrap(err, "failed to get version")
	}
	return version, nil
}

// Set overwrites the stamp of principalID for class.
func (r *RedisVersionRepository) Set(
	ctx context.Context,
	class authDomain.CredentialClass,
	principalID, version string,
) error {
	if _, err := versionTable(class); err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(class, principalID), version, 0).Err(); err != nil {
		return apperrors.Wrap(err, "failed to set version")
	}
	return nil
}

// SetAll overwrites the stamps of principalID for every class in versions inside one
// MULTI/EXEC block, so either all classes move or none does.
func (r *RedisVersionRepository) SetAll(
	ctx context.Context,
	principalID string,
	versions map[authDomain.CredentialClass]string,
) error {
	classes, err := stampClasses(versions)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, class := range classes {
			pipe.Set(ctx, r.key(class, principalID), versions[class], 0)
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to set versions")
	}
	return nil
}

// NewRedisVersionRepository creates a new Redis version repository.
func NewRedisVersionRepository(client redis.UniversalClient, prefix string) *RedisVersionRepository {
	return &RedisVersionRepository{client: client, prefix: prefix}
}
