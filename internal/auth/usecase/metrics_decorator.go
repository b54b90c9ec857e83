package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	username, secret string,
) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := s.next.Login(ctx, username, secret)
	s.record(ctx, "login", start, err)
	return pair, err
}

// Refresh records metrics for refresh operations.
func (s *sessionUseCaseWithMetrics) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.AccessTokenOutput, error) {
	start := time.Now()
	output, err := s.next.Refresh(ctx, refreshToken)
	s.record(ctx, "refresh", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, principalID uuid.UUID) error {
	start := time.Now()
	err := s.next.Logout(ctx, principalID)
	s.record(ctx, "logout", start, err)
	return err
}

func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", operation, status)
	s.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// authorizationGuardWithMetrics decorates AuthorizationGuard with metrics instrumentation.
type authorizationGuardWithMetrics struct {
	next    AuthorizationGuard
	metrics metrics.BusinessMetrics
}

// NewAuthorizationGuardWithMetrics wraps an AuthorizationGuard with metrics recording.
func NewAuthorizationGuardWithMetrics(guard AuthorizationGuard, m metrics.BusinessMetrics) AuthorizationGuard {
	return &authorizationGuardWithMetrics{
		next:    guard,
		metrics: m,
	}
}

// Check records metrics for authorization checks.
func (a *authorizationGuardWithMetrics) Check(
	ctx context.Context,
	authorizationHeader string,
	roles []authDomain.Role,
) (*authDomain.AuthenticatedIdentity, error) {
	start := time.Now()
	identity, err := a.next.Check(ctx, authorizationHeader, roles)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "guard_check", status)
	a.metrics.RecordDuration(ctx, "auth", "guard_check", time.Since(start), status)

	return identity, err
}
