package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	"github.com/allisson/gatekeeper/internal/admin/http/dto"
	"github.com/allisson/gatekeeper/internal/admin/usecase/mocks"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	"github.com/allisson/gatekeeper/internal/httputil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupAdminHandler(t *testing.T) (*AdminHandler, *mocks.MockAdminUseCase) {
	t.Helper()
	useCase := &mocks.MockAdminUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAdminHandler(useCase, logger), useCase
}

func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}

	c.Request = httptest.NewRequest(method, path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func newTestAdmin() *adminDomain.Admin {
	hash := "fingerprint"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &adminDomain.Admin{
		ID:               uuid.Must(uuid.NewV7()),
		Username:         "alice",
		Password:         "ciphertext",
		Role:             authDomain.RoleAdmin,
		RefreshTokenHash: &hash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAdminHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		admin := newTestAdmin()
		admin.RefreshTokenHash = nil
		useCase.On("Create", mock.Anything, &adminDomain.CreateAdminInput{
			Username: "alice",
			Password: "s3cret-pass1",
		}).Return(admin, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/admins", dto.CreateAdminRequest{
			Username: "alice",
			Password: "s3cret-pass1",
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.AdminResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, admin.ID.String(), resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "admin", resp.Role)
		assert.False(t, resp.HasSession)
		assert.NotContains(t, w.Body.String(), "ciphertext")
		useCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/admins", "{")
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/admins", dto.CreateAdminRequest{
			Username: "alice",
			Password: "s3cret-pass1",
			Role:     "root",
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_BusyUsername", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		useCase.On("Create", mock.Anything, mock.Anything).Return(nil, adminDomain.ErrBusyUsername).Once()

		c, w := createTestContext(http.MethodPost, "/v1/admins", dto.CreateAdminRequest{
			Username: "alice",
			Password: "s3cret-pass1",
		})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "busy_username", decodeError(t, w).Code)
	})
}

func TestAdminHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		admin := newTestAdmin()
		useCase.On("Get", mock.Anything, admin.ID).Return(admin, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admins/"+admin.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: admin.ID.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.AdminResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.HasSession)
		assert.NotContains(t, w.Body.String(), "fingerprint")
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/admins/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())
		useCase.On("Get", mock.Anything, id).Return(nil, adminDomain.ErrAdminNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admins/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "admin_not_found", decodeError(t, w).Code)
	})
}

func TestAdminHandler_MeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		admin := newTestAdmin()
		useCase.On("Get", mock.Anything, admin.ID).Return(admin, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admins/me", nil)
		c.Request = c.Request.WithContext(authHTTP.WithIdentity(c.Request.Context(),
			&authDomain.AuthenticatedIdentity{PrincipalID: admin.ID.String(), Role: authDomain.RoleAdmin}))
		handler.MeHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		handler, _ := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/admins/me", nil)
		handler.MeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_NonUUIDSubject", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/admins/me", nil)
		c.Request = c.Request.WithContext(authHTTP.WithIdentity(c.Request.Context(),
			&authDomain.AuthenticatedIdentity{PrincipalID: "42", Role: authDomain.RoleAdmin}))
		handler.MeHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestAdminHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		admins := []*adminDomain.Admin{newTestAdmin(), newTestAdmin()}
		useCase.On("List", mock.Anything, adminDomain.ListFilter{Offset: 10, Limit: 5, Username: "ali"}).
			Return(admins, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admins?offset=10&limit=5&username=ali", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ListAdminsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("Success_EmptyList", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		useCase.On("List", mock.Anything, adminDomain.ListFilter{Offset: 0, Limit: 50}).
			Return([]*adminDomain.Admin{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/admins", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/admins?limit=1000", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestAdminHandler_UpdateHandler(t *testing.T) {
	t.Run("Success_Password", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		admin := newTestAdmin()
		admin.RefreshTokenHash = nil
		password := "n3w-password"
		useCase.On("Update", mock.Anything, admin.ID, &adminDomain.UpdateAdminInput{Password: &password}).
			Return(admin, nil).Once()

		c, w := createTestContext(http.MethodPatch, "/v1/admins/"+admin.ID.String(), map[string]string{
			"password": password,
		})
		c.Params = gin.Params{{Key: "id", Value: admin.ID.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.AdminResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.HasSession)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_EmptyBody", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())

		c, w := createTestContext(http.MethodPatch, "/v1/admins/"+id.String(), map[string]string{})
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_BusyUsername", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())
		useCase.On("Update", mock.Anything, id, mock.Anything).Return(nil, adminDomain.ErrBusyUsername).Once()

		c, w := createTestContext(http.MethodPatch, "/v1/admins/"+id.String(), map[string]string{
			"username": "bob",
		})
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAdminHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())
		useCase.On("Delete", mock.Anything, id).Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/admins/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.DeleteHandler(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, useCase := setupAdminHandler(t)
		id := uuid.Must(uuid.NewV7())
		useCase.On("Delete", mock.Anything, id).Return(adminDomain.ErrAdminNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/admins/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
