package commands

import (
	"context"
	"fmt"
	"log/slog"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	adminUseCase "github.com/allisson/gatekeeper/internal/admin/usecase"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// RunCreateAdmin creates an admin. It is the only way to bootstrap the first admin, since
// every admin route requires an admin token. When password is empty it is read from
// io.Reader so it stays out of shell history.
func RunCreateAdmin(
	ctx context.Context,
	useCase adminUseCase.UseCase,
	logger *slog.Logger,
	username, password, role, format string,
	io IOTuple,
) error {
	if password == "" {
		var err error
		password, err = promptLine(io, "Password: ")
		if err != nil {
			return err
		}
	}

	logger.Info("creating admin", slog.String("username", username), slog.String("role", role))

	admin, err := useCase.Create(ctx, &adminDomain.CreateAdminInput{
		Username: username,
		Password: password,
		Role:     authDomain.Role(role),
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if format == "json" {
		return writeJSON(io.Writer, map[string]string{
			"id":       admin.ID.String(),
			"username": admin.Username,
			"role":     string(admin.Role),
		})
	}

	_, _ = fmt.Fprintf(io.Writer, "Admin created\n  id:       %s\n  username: %s\n  role:     %s\n",
		admin.ID, admin.Username, admin.Role)
	return nil
}
