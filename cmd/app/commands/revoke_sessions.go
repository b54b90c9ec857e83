package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	adminUseCase "github.com/allisson/gatekeeper/internal/admin/usecase"
)

// RunRevokeSessions supersedes every access and refresh token of one admin. Intended for
// incident response when the HTTP API is not reachable or the admin token is lost.
func RunRevokeSessions(
	ctx context.Context,
	sessions adminUseCase.SessionRevoker,
	logger *slog.Logger,
	adminID string,
	io IOTuple,
) error {
	id, err := uuid.Parse(adminID)
	if err != nil {
		return fmt.Errorf("invalid admin id %q: must be a valid UUID", adminID)
	}

	if err := sessions.Logout(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	logger.Info("sessions revoked", slog.String("admin_id", id.String()))
	_, _ = fmt.Fprintf(io.Writer, "All sessions of %s revoked\n", id)
	return nil
}
