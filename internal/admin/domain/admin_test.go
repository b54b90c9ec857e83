package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

func TestAdmin_HasSession(t *testing.T) {
	empty := ""
	hash := "$2a$10$abc"

	assert.False(t, (&Admin{}).HasSession())
	assert.False(t, (&Admin{RefreshTokenHash: &empty}).HasSession())
	assert.True(t, (&Admin{RefreshTokenHash: &hash}).HasSession())
}

func TestAdminErrors(t *testing.T) {
	assert.ErrorIs(t, ErrAdminNotFound, apperrors.ErrNotFound)
	assert.Equal(t, "admin_not_found", apperrors.CodeOf(ErrAdminNotFound))

	assert.ErrorIs(t, ErrBusyUsername, apperrors.ErrConflict)
	assert.Equal(t, "busy_username", apperrors.CodeOf(ErrBusyUsername))
}
