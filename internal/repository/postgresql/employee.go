package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var employeeColumns = []string{
	"id", "full_name", "email", "joining_date", "manager_id",
	"annual_leave_balance", "created_at", "updated_at",
}

type employeeRow struct {
	ID                 string    `db:"id"`
	FullName           string    `db:"full_name"`
	Email              string    `db:"email"`
	JoiningDate        time.Time `db:"joining_date"`
	ManagerID          *string   `db:"manager_id"`
	AnnualLeaveBalance int       `db:"annual_leave_balance"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r employeeRow) toEntity() employee.Employee {
	return employee.Employee{
		ID:                 r.ID,
		FullName:           r.FullName,
		Email:              r.Email,
		JoiningDate:        r.JoiningDate,
		ManagerID:          r.ManagerID,
		AnnualLeaveBalance: r.AnnualLeaveBalance,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (employee.Employee, error) {
	builder := psql.Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("build employee query: %w", err)
	}

	var row employeeRow
	if err := pgxscan.Get(ctx, GetQuerier(ctx, r.db), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.get(ctx, id, true)
}

// UpdateBalance implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateBalance(ctx context.Context, id string, balance int) error {
	if balance < 0 {
		return employee.ErrNegativeBalance
	}

	query, args, err := psql.Update("employees").
		Set("annual_leave_balance", balance).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build balance update: %w", err)
	}

	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update balance of employee %s: %w", id, err)
	}
	if tag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListByManager implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	return r.list(ctx, psql.Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"manager_id": managerID}).
		OrderBy("full_name ASC", "id ASC"))
}

func (r *employeeRepositoryImpl) list(ctx context.Context, builder sq.SelectBuilder) ([]employee.Employee, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build employee list: %w", err)
	}

	var rows []employeeRow
	if err := pgxscan.Select(ctx, GetQuerier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, row.toEntity())
	}
	return employees, nil
}
