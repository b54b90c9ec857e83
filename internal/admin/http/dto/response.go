package dto

import (
	"time"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
)

// AdminResponse is the public view of an admin. Secrets and fingerprints are never exposed.
type AdminResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	HasSession bool      `json:"has_session"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListAdminsResponse wraps a page of admins.
type ListAdminsResponse struct {
	Data []AdminResponse `json:"data"`
}

// MapAdminToResponse converts a domain admin to an API response.
func MapAdminToResponse(admin *adminDomain.Admin) AdminResponse {
	return AdminResponse{
		ID:         admin.ID.String(),
		Username:   admin.Username,
		Role:       string(admin.Role),
		HasSession: admin.HasSession(),
		CreatedAt:  admin.CreatedAt,
		UpdatedAt:  admin.UpdatedAt,
	}
}

// MapAdminsToListResponse converts a slice of admins to a list response.
func MapAdminsToListResponse(admins []*adminDomain.Admin) ListAdminsResponse {
	data := make([]AdminResponse, 0, len(admins))
	for _, admin := range admins {
		data = append(data, MapAdminToResponse(admin))
	}
	return ListAdminsResponse{Data: data}
}
