package leave

import (
	"context"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// GetByIDForUpdate locks the row for the rest of the current unit of work.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	// UpdateStatus persists the status, approver, approved date and comments
	// of request only if the stored status still equals expected. Otherwise it
	// returns ErrLeaveRequestAlreadyProcessed.
	UpdateStatus(ctx context.Context, request LeaveRequest, expected LeaveRequestStatus) error
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByEmployees(ctx context.Context, employeeIDs []string) ([]LeaveRequest, error)
}

// Transactor runs fn as one unit of work. Repositories called with the
// context passed to fn take part in it; a non-nil error from fn aborts it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
