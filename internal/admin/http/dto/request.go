// Package dto provides data transfer objects for admin management requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// CreateAdminRequest contains the parameters for creating a new admin.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request payload
	Role     string `json:"role"`
}

// Validate checks the request shape. Password policy is enforced by the use case.
func (r *CreateAdminRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required,
		),
		validation.Field(&r.Role,
			validation.In(string(authDomain.RoleAdmin), string(authDomain.RoleUser)),
		),
	)
}

// UpdateAdminRequest contains the fields an update may change. Omitted fields keep their value.
type UpdateAdminRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"` //nolint:gosec // request payload
}

// Validate requires at least one field and rejects blank values.
func (r *UpdateAdminRequest) Validate() error {
	if r.Username == nil && r.Password == nil {
		return validation.Errors{
			"username": validation.NewError("validation_required_one", "username or password is required"),
		}
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.When(r.Username != nil, validation.Required)),
		validation.Field(&r.Password, validation.When(r.Password != nil, validation.Required)),
	)
}
