package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	appValidation "github.com/allisson/gatekeeper/internal/validation"
)

// passwordPolicy is enforced on every new or changed admin password.
var passwordPolicy = appValidation.PasswordStrength{
	MinLength:     8,
	RequireLower:  true,
	RequireNumber: true,
}

// adminUseCase implements UseCase.
type adminUseCase struct {
	txManager database.TxManager
	adminRepo AdminRepository
	encrypter SecretEncrypter
	sessions  SessionRevoker
	locker    PrincipalLocker
}

func usernameRules() []validation.Rule {
	return []validation.Rule{
		appValidation.NotBlank,
		appValidation.NoWhitespace,
		validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		appValidation.Username,
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		passwordPolicy,
	}
}

func validateCreateAdminInput(input *adminDomain.CreateAdminInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Username,
			append([]validation.Rule{validation.Required.Error("username is required")}, usernameRules()...)...,
		),
		validation.Field(&input.Password,
			append([]validation.Rule{validation.Required.Error("password is required")}, passwordRules()...)...,
		),
		validation.Field(&input.Role,
			validation.In(authDomain.RoleAdmin, authDomain.RoleUser).Error("role must be admin or user"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func validateUpdateAdminInput(input *adminDomain.UpdateAdminInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Username,
			validation.When(input.Username != nil,
				append([]validation.Rule{validation.Required.Error("username must not be empty")}, usernameRules()...)...,
			),
		),
		validation.Field(&input.Password,
			validation.When(input.Password != nil,
				append([]validation.Rule{validation.Required.Error("password must not be empty")}, passwordRules()...)...,
			),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create stores a new admin with its password encrypted.
func (a *adminUseCase) Create(
	ctx context.Context,
	input *adminDomain.CreateAdminInput,
) (*adminDomain.Admin, error) {
	if input.Role == "" {
		input.Role = authDomain.RoleAdmin
	}
	if err := validateCreateAdminInput(input); err != nil {
		return nil, err
	}

	password, err := a.encrypter.EncryptSecret(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt password")
	}

	now := time.Now().UTC()
	admin := &adminDomain.Admin{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  strings.TrimSpace(input.Username),
		Password:  password,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// Get retrieves an admin by ID.
func (a *adminUseCase) Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	return a.adminRepo.Get(ctx, adminID)
}

// List returns a page of admins.
func (a *adminUseCase) List(
	ctx context.Context,
	filter adminDomain.ListFilter,
) ([]*adminDomain.Admin, error) {
	return a.adminRepo.List(ctx, filter)
}

// Update applies the explicit field list of input. The username check runs before the
// write so a taken name is reported as ErrBusyUsername; the unique index still backs it.
func (a *adminUseCase) Update(
	ctx context.Context,
	adminID uuid.UUID,
	input *adminDomain.UpdateAdminInput,
) (*adminDomain.Admin, error) {
	if err := validateUpdateAdminInput(input); err != nil {
		return nil, err
	}

	// Held until the transaction commits so a concurrent login cannot verify the old
	// password or publish a session the nested Logout has not yet revoked.
	ctx, unlock := a.locker.LockContext(ctx, adminID.String())
	defer unlock()

	var updated *adminDomain.Admin
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		admin, err := a.adminRepo.Get(ctx, adminID)
		if err != nil {
			return err
		}

		if input.Username != nil && *input.Username != admin.Username {
			existing, err := a.adminRepo.GetByUsername(ctx, *input.Username)
			switch {
			case err == nil && existing.ID != admin.ID:
				return adminDomain.ErrBusyUsername
			case err != nil && !apperrors.Is(err, adminDomain.ErrAdminNotFound):
				return err
			}
			admin.Username = *input.Username
		}

		passwordChanged := input.Password != nil
		if passwordChanged {
			password, err := a.encrypter.EncryptSecret(*input.Password)
			if err != nil {
				return apperrors.Wrap(err, "failed to encrypt password")
			}
			admin.Password = password
		}

		admin.UpdatedAt = time.Now().UTC()
		if err := a.adminRepo.Update(ctx, admin); err != nil {
			return err
		}

		if passwordChanged {
			if err := a.sessions.Logout(ctx, admin.ID); err != nil {
				return err
			}
			admin.RefreshTokenHash = nil
		}

		updated = admin
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete revokes the admin's sessions and removes it in one transaction.
func (a *adminUseCase) Delete(ctx context.Context, adminID uuid.UUID) error {
	ctx, unlock := a.locker.LockContext(ctx, adminID.String())
	defer unlock()

	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.sessions.Logout(ctx, adminID); err != nil {
			return err
		}
		return a.adminRepo.Delete(ctx, adminID)
	})
}

// NewAdminUseCase creates a new admin UseCase.
func NewAdminUseCase(
	txManager database.TxManager,
	adminRepo AdminRepository,
	encrypter SecretEncrypter,
	sessions SessionRevoker,
	locker PrincipalLocker,
) UseCase {
	return &adminUseCase{
		txManager: txManager,
		adminRepo: adminRepo,
		encrypter: encrypter,
		sessions:  sessions,
		locker:    locker,
	}
}
