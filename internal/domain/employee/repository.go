package employee

import "context"

// EmployeeRepository is the directory collaborator. Implementations return
// ErrEmployeeNotFound for unknown identifiers.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDForUpdate locks the employee row for the rest of the current
	// unit of work.
	GetByIDForUpdate(ctx context.Context, id string) (Employee, error)
	UpdateBalance(ctx context.Context, id string, balance int) error
	ListByManager(ctx context.Context, managerID string) ([]Employee, error)
}
