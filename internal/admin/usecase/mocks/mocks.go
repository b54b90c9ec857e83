// Package mocks provides testify mock implementations of the admin use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
)

// MockAdminUseCase is a mock implementation of the admin UseCase.
type MockAdminUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAdminUseCase) Create(
	ctx context.Context,
	input *adminDomain.CreateAdminInput,
) (*adminDomain.Admin, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.Admin), args.Error(1)
}

// Get mocks the Get method.
func (m *MockAdminUseCase) Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.Admin), args.Error(1)
}

// List mocks the List method.
func (m *MockAdminUseCase) List(
	ctx context.Context,
	filter adminDomain.ListFilter,
) ([]*adminDomain.Admin, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*adminDomain.Admin), args.Error(1)
}

// Update mocks the Update method.
func (m *MockAdminUseCase) Update(
	ctx context.Context,
	adminID uuid.UUID,
	input *adminDomain.UpdateAdminInput,
) (*adminDomain.Admin, error) {
	args := m.Called(ctx, adminID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adminDomain.Admin), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockAdminUseCase) Delete(ctx context.Context, adminID uuid.UUID) error {
	args := m.Called(ctx, adminID)
	return args.Error(0)
}
