package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var leaveRequestColumns = []string{
	"lr.id", "lr.employee_id", "lr.leave_type", "lr.start_date", "lr.end_date",
	"lr.reason", "lr.status", "lr.applied_date", "lr.approved_by", "lr.approved_date",
	"lr.comments", "lr.created_at", "lr.updated_at",
}

type leaveRequestRow struct {
	ID           string     `db:"id"`
	EmployeeID   string     `db:"employee_id"`
	LeaveType    string     `db:"leave_type"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	Reason       string     `db:"reason"`
	Status       string     `db:"status"`
	AppliedDate  time.Time  `db:"applied_date"`
	ApprovedBy   *string    `db:"approved_by"`
	ApprovedDate *time.Time `db:"approved_date"`
	Comments     *string    `db:"comments"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	EmployeeName *string    `db:"employee_name"`
	ApproverName *string    `db:"approver_name"`
}

func (r leaveRequestRow) toEntity() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		LeaveType:    leave.LeaveType(r.LeaveType),
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Reason:       r.Reason,
		Status:       leave.LeaveRequestStatus(r.Status),
		AppliedDate:  r.AppliedDate,
		ApprovedBy:   r.ApprovedBy,
		ApprovedDate: r.ApprovedDate,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		EmployeeName: r.EmployeeName,
		ApproverName: r.ApproverName,
	}
}

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// selectWithNames joins display names of the employee and approver.
func selectWithNames() sq.SelectBuilder {
	return psql.Select(leaveRequestColumns...).
		Columns("e.full_name AS employee_name", "a.full_name AS approver_name").
		From("leave_requests lr").
		LeftJoin("employees e ON e.id = lr.employee_id").
		LeftJoin("employees a ON a.id = lr.approved_by")
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	query, args, err := psql.Insert("leave_requests").
		Columns(
			"id", "employee_id", "leave_type", "start_date", "end_date", "reason",
			"status", "applied_date", "created_at", "updated_at",
		).
		Values(
			request.ID, request.EmployeeID, string(request.LeaveType), request.StartDate, request.EndDate, request.Reason,
			string(request.Status), request.AppliedDate, request.CreatedAt, request.UpdatedAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("build leave request insert: %w", err)
	}

	if err := GetQuerier(ctx, r.db).QueryRow(ctx, query, args...).Scan(&request.CreatedAt, &request.UpdatedAt); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (leave.LeaveRequest, error) {
	builder := selectWithNames().Where(sq.Eq{"lr.id": id})
	if forUpdate {
		// Lock only the request row; the employee row is locked separately.
		builder = builder.Suffix("FOR UPDATE OF lr")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("build leave request query: %w", err)
	}

	var row leaveRequestRow
	if err := pgxscan.Get(ctx, GetQuerier(ctx, r.db), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("get leave request %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, id, true)
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, expected leave.LeaveRequestStatus) error {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Update("leave_requests").
		Set("status", string(request.Status)).
		Set("approved_by", request.ApprovedBy).
		Set("approved_date", request.ApprovedDate).
		Set("comments", request.Comments).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": request.ID, "status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build leave request update: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update leave request %s: %w", request.ID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, request.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check leave request %s: %w", request.ID, err)
	}
	if !exists {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

// FindActiveByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindActiveByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, selectWithNames().Where(sq.Eq{
		"lr.employee_id": employeeID,
		"lr.status":      []string{string(leave.LeaveRequestStatusPending), string(leave.LeaveRequestStatusApproved)},
	}))
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, selectWithNames().Where(sq.Eq{"lr.employee_id": employeeID}))
}

// ListByEmployees implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployees(ctx context.Context, employeeIDs []string) ([]leave.LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}
	return r.list(ctx, selectWithNames().Where(sq.Eq{"lr.employee_id": employeeIDs}))
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, builder sq.SelectBuilder) ([]leave.LeaveRequest, error) {
	query, args, err := builder.OrderBy("lr.start_date DESC", "lr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leave request list: %w", err)
	}

	var rows []leaveRequestRow
	if err := pgxscan.Select(ctx, GetQuerier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}

	requests := make([]leave.LeaveRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toEntity())
	}
	return requests, nil
}
