package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
)

// RequireRoles guards a route with the AuthorizationGuard. The roles are the route's
// metadata: an empty list admits any verified principal.
//
// On success the identity is stored in the request context (see GetIdentity). On failure
// the request is aborted with the guard's error mapped by httputil.HandleErrorGin; every
// credential failure is a 401 carrying its code.
//
// Usage:
//
//	admins := router.Group("/v1/admins", RequireRoles(guard, logger, authDomain.RoleAdmin))
//	router.POST("/v1/auth/logout", RequireRoles(guard, logger), sessionHandler.LogoutHandler)
func RequireRoles(
	guard authUseCase.AuthorizationGuard,
	logger *slog.Logger,
	roles ...authDomain.Role,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := guard.Check(c.Request.Context(), c.GetHeader("Authorization"), roles)
		if err != nil {
			logger.Debug("authorization failed",
				slog.String("path", c.FullPath()),
				slog.String("code", apperrors.CodeOf(err)))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authorization successful",
			slog.String("principal_id", identity.PrincipalID),
			slog.String("role", string(identity.Role)))

		c.Next()
	}
}
