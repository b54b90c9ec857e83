// Package mocks provides testify mock implementations of the auth use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// MockSessionUseCase is a mock implementation of SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

// Login mocks the Login method of SessionUseCase.
func (m *MockSessionUseCase) Login(ctx context.Context, username, secret string) (*authDomain.TokenPair, error) {
	args := m.Called(ctx, username, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TokenPair), args.Error(1)
}

// Refresh mocks the Refresh method of SessionUseCase.
func (m *MockSessionUseCase) Refresh(
	ctx context.Context,
	refreshToken string,
) (*authDomain.AccessTokenOutput, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AccessTokenOutput), args.Error(1)
}

// Logout mocks the Logout method of SessionUseCase.
func (m *MockSessionUseCase) Logout(ctx context.Context, principalID uuid.UUID) error {
	args := m.Called(ctx, principalID)
	return args.Error(0)
}

// MockAuthorizationGuard is a mock implementation of AuthorizationGuard.
type MockAuthorizationGuard struct {
	mock.Mock
}

// Check mocks the Check method of AuthorizationGuard.
func (m *MockAuthorizationGuard) Check(
	ctx context.Context,
	authorizationHeader string,
	roles []authDomain.Role,
) (*authDomain.AuthenticatedIdentity, error) {
	args := m.Called(ctx, authorizationHeader, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthenticatedIdentity), args.Error(1)
}
