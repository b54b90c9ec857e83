package service

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// VersionStore hands out the current version stamp of a principal for one credential
// class and supersedes it on demand. A stamp is a random UUID string.
type VersionStore struct {
	repo     VersionRepository
	newStamp func() string
}

// NewVersionStore creates a VersionStore backed by repo.
func NewVersionStore(repo VersionRepository) *VersionStore {
	return &VersionStore{repo: repo, newStamp: uuid.NewString}
}

// Get returns the stored stamp. For a principal that was never rotated it returns a
// fresh random stamp without persisting it, so nothing ever matches it.
func (s *VersionStore) Get(
	ctx context.Context,
	principalID string,
	class authDomain.CredentialClass,
) (string, error) {
	version, err := s.repo.Get(ctx, class, principalID)
	if err == nil {
		return version, nil
	}
	if apperrors.Is(err, authDomain.ErrVersionNotFound) {
		return s.newStamp(), nil
	}
	return "", apperrors.Wrapf(err, "failed to read %s version", class)
}

// Rotate replaces the stamp with a new random one and returns it once persisted.
func (s *VersionStore) Rotate(
	ctx context.Context,
	principalID string,
	class authDomain.CredentialClass,
) (string, error) {
	version := s.newStamp()
	if err := s.repo.Set(ctx, class, principalID, version); err != nil {
		return "", apperrors.Wrapf(err, "failed to rotate %s version", class)
	}
	return version, nil
}

// Stage draws fresh stamps for classes without persisting them. Tokens can be minted
// against the staged stamps; they only start verifying once Commit succeeds.
func (s *VersionStore) Stage(classes ...authDomain.CredentialClass) map[authDomain.CredentialClass]string {
	staged := make(map[authDomain.CredentialClass]string, len(classes))
	for _, class := range classes {
		staged[class] = s.newStamp()
	}
	return staged
}

// Commit persists staged stamps of principalID in one write. SQL backends join the
// ambient transaction; Redis and memory backends apply all classes or none.
func (s *VersionStore) Commit(
	ctx context.Context,
	principalID string,
	staged map[authDomain.CredentialClass]string,
) error {
	if len(staged) == 0 {
		return nil
	}
	if err := s.repo.SetAll(ctx, principalID, staged); err != nil {
		return apperrors.Wrap(err, "failed to commit versions")
	}
	return nil
}
