package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Admin errors.
var (
	// ErrAdminNotFound indicates the principal does not exist.
	ErrAdminNotFound = errors.NewCoded(errors.ErrNotFound, "admin_not_found", "admin not found")

	// ErrBusyUsername indicates the username is already taken.
	ErrBusyUsername = errors.NewCoded(errors.ErrConflict, "busy_username", "username is already taken")
)
