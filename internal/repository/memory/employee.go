package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	defer r.store.read(ctx)()
	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// GetByIDForUpdate is GetByID; the store lock already serializes units of work.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

func (r *employeeRepositoryImpl) UpdateBalance(ctx context.Context, id string, balance int) error {
	if balance < 0 {
		return employee.ErrNegativeBalance
	}
	defer r.store.write(ctx)()
	e, ok := r.store.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.AnnualLeaveBalance = balance
	e.UpdatedAt = time.Now()
	r.store.employees[id] = e
	return nil
}

func (r *employeeRepositoryImpl) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	defer r.store.read(ctx)()
	var out []employee.Employee
	for _, e := range r.store.employees {
		if e.IsManagedBy(managerID) {
			out = append(out, e)
		}
	}
	sortEmployees(out)
	return out, nil
}

func sortEmployees(es []employee.Employee) {
	sort.Slice(es, func(i, j int) bool { return es[i].FullName < es[j].FullName })
}
