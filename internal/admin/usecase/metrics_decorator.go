package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	adminDomain "github.com/allisson/gatekeeper/internal/admin/domain"
	"github.com/allisson/gatekeeper/internal/metrics"
)

// adminUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type adminUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAdminUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAdminUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &adminUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *adminUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "admin", operation, status)
	a.metrics.RecordDuration(ctx, "admin", operation, time.Since(start), status)
}

// Create records metrics for admin creation operations.
func (a *adminUseCaseWithMetrics) Create(
	ctx context.Context,
	input *adminDomain.CreateAdminInput,
) (*adminDomain.Admin, error) {
	start := time.Now()
	admin, err := a.next.Create(ctx, input)
	a.record(ctx, "admin_create", start, err)
	return admin, err
}

// Get records metrics for admin retrieval operations.
func (a *adminUseCaseWithMetrics) Get(ctx context.Context, adminID uuid.UUID) (*adminDomain.Admin, error) {
	start := time.Now()
	admin, err := a.next.Get(ctx, adminID)
	a.record(ctx, "admin_get", start, err)
	return admin, err
}

// List records metrics for admin list operations.
func (a *adminUseCaseWithMetrics) List(
	ctx context.Context,
	filter adminDomain.ListFilter,
) ([]*adminDomain.Admin, error) {
	start := time.Now()
	admins, err := a.next.List(ctx, filter)
	a.record(ctx, "admin_list", start, err)
	return admins, err
}

// Update records metrics for admin update operations.
func (a *adminUseCaseWithMetrics) Update(
	ctx context.Context,
	adminID uuid.UUID,
	input *adminDomain.UpdateAdminInput,
) (*adminDomain.Admin, error) {
	start := time.Now()
	admin, err := a.next.Update(ctx, adminID, input)
	a.record(ctx, "admin_update", start, err)
	return admin, err
}

// Delete records metrics for admin deletion operations.
func (a *adminUseCaseWithMetrics) Delete(ctx context.Context, adminID uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, adminID)
	a.record(ctx, "admin_delete", start, err)
	return err
}
