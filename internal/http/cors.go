package http

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMethods mirrors the verbs used by the /v1/auth and /v1/admins route groups.
var corsMethods = []string{
	"GET",
	"POST",
	"PATCH",
	"DELETE",
}

// createCORSMiddleware returns nil unless CORS is enabled with at least one valid origin.
// Bearer tokens travel in the Authorization header, so credentialed (cookie) requests
// stay disallowed.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOriginsStr)
	if len(rejected) > 0 {
		logger.Warn("ignoring invalid CORS origins", slog.Any("origins", rejected))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured, CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: corsMethods,
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
		},
		ExposeHeaders: []string{
			"X-Request-Id",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	})
}

// parseOrigins splits a comma-separated CORS_ALLOW_ORIGINS value. An origin is kept only
// when it is an http or https scheme plus host with no path; everything else is returned
// in rejected.
func parseOrigins(originsStr string) (origins []string, rejected []string) {
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if !validOrigin(origin) {
			rejected = append(rejected, origin)
			continue
		}
		origins = append(origins, origin)
	}
	return origins, rejected
}

func validOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != "" &&
		u.Path == "" &&
		u.RawQuery == "" &&
		u.User == nil
}
