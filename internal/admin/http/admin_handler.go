// Package http provides HTTP handlers for admin management.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	"github.com/allisson/gatekeeper/internal/admin/http/dto"
	adminUseCase "github.com/allisson/gatekeeper/internal/admin/usecase"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	"github.com/allisson/gatekeeper/internal/httputil"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// AdminHandler handles HTTP requests for admin management.
// All routes require an access token with the admin role.
type AdminHandler struct {
	adminUseCase adminUseCase.UseCase
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler with required dependencies.
func NewAdminHandler(adminUseCase adminUseCase.UseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new admin.
// POST /v1/admins - Returns 201 Created with the admin.
func (h *AdminHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAdminRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &adminDomain.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		Role:     authDomain.Role(req.Role),
	}

	admin, err := h.adminUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAdminToResponse(admin))
}

// GetHandler retrieves an admin by ID.
// GET /v1/admins/:id - Returns 200 OK with the admin.
func (h *AdminHandler) GetHandler(c *gin.Context) {
	adminID, ok := h.parseAdminID(c)
	if !ok {
		return
	}

	admin, err := h.adminUseCase.Get(c.Request.Context(), adminID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAdminToResponse(admin))
}

// MeHandler returns the admin behind the presented access token.
// GET /v1/admins/me
func (h *AdminHandler) MeHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, h.logger)
		return
	}

	adminID, err := uuid.Parse(identity.PrincipalID)
	if err != nil {
		httputil.HandleErrorGin(c, authDomain.ErrTokenMalformed, h.logger)
		return
	}

	admin, err := h.adminUseCase.Get(c.Request.Context(), adminID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAdminToResponse(admin))
}

// ListHandler lists admins with pagination and an optional username filter.
// GET /v1/admins?offset=0&limit=50&username=ali
func (h *AdminHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := adminDomain.ListFilter{
		Offset:   offset,
		Limit:    limit,
		Username: c.Query("username"),
	}

	admins, err := h.adminUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAdminsToListResponse(admins))
}

// UpdateHandler changes the username and/or password of an admin.
// PATCH /v1/admins/:id - A password change revokes every session of the admin.
func (h *AdminHandler) UpdateHandler(c *gin.Context) {
	adminID, ok := h.parseAdminID(c)
	if !ok {
		return
	}

	var req dto.UpdateAdminRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &adminDomain.UpdateAdminInput{
		Username: req.Username,
		Password: req.Password,
	}

	admin, err := h.adminUseCase.Update(c.Request.Context(), adminID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAdminToResponse(admin))
}

// DeleteHandler revokes every session of an admin and removes it.
// DELETE /v1/admins/:id - Returns 204 No Content.
func (h *AdminHandler) DeleteHandler(c *gin.Context) {
	adminID, ok := h.parseAdminID(c)
	if !ok {
		return
	}

	if err := h.adminUseCase.Delete(c.Request.Context(), adminID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) parseAdminID(c *gin.Context) (uuid.UUID, bool) {
	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid admin ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return adminID, true
}
