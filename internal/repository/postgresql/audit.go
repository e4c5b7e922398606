package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type auditRow struct {
	ID              string    `db:"id"`
	LeaveRequestID  string    `db:"leave_request_id"`
	Action          string    `db:"action"`
	PerformedBy     string    `db:"performed_by"`
	PerformedByName string    `db:"performed_by_name"`
	ActionTimestamp time.Time `db:"action_timestamp"`
	OldStatus       *string   `db:"old_status"`
	NewStatus       *string   `db:"new_status"`
	Comments        *string   `db:"comments"`
	Details         *string   `db:"details"`
}

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

// Create implements audit.AuditRepository.
func (r *auditRepositoryImpl) Create(ctx context.Context, entry audit.AuditEntry) (audit.AuditEntry, error) {
	query, args, err := psql.Insert("leave_audit").
		Columns(
			"id", "leave_request_id", "action", "performed_by", "performed_by_name",
			"action_timestamp", "old_status", "new_status", "comments", "details",
		).
		Values(
			entry.ID, entry.LeaveRequestID, string(entry.Action), entry.PerformedBy, entry.PerformedByName,
			entry.ActionTimestamp, entry.OldStatus, entry.NewStatus, entry.Comments, entry.Details,
		).
		ToSql()
	if err != nil {
		return audit.AuditEntry{}, fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return audit.AuditEntry{}, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// List implements audit.AuditRepository.
func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.AuditEntry, error) {
	builder := psql.Select(
		"id", "leave_request_id", "action", "performed_by", "performed_by_name",
		"action_timestamp", "old_status", "new_status", "comments", "details",
	).From("leave_audit")

	if filter.LeaveRequestID != "" {
		builder = builder.Where(sq.Eq{"leave_request_id": filter.LeaveRequestID})
	}
	if filter.ActorID != "" {
		builder = builder.Where(sq.Eq{"performed_by": filter.ActorID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": string(filter.Action)})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"action_timestamp": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"action_timestamp": *filter.To})
	}
	if filter.RequestOwnerIDs != nil {
		builder = builder.Where(sq.Expr(
			"leave_request_id IN (SELECT id FROM leave_requests WHERE employee_id = ANY(?))",
			filter.RequestOwnerIDs,
		))
	}

	query, args, err := builder.OrderBy("action_timestamp DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, GetQuerier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	entries := make([]audit.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, audit.AuditEntry{
			ID:              row.ID,
			LeaveRequestID:  row.LeaveRequestID,
			Action:          audit.Action(row.Action),
			PerformedBy:     row.PerformedBy,
			PerformedByName: row.PerformedByName,
			ActionTimestamp: row.ActionTimestamp,
			OldStatus:       row.OldStatus,
			NewStatus:       row.NewStatus,
			Comments:        row.Comments,
			Details:         row.Details,
		})
	}
	return entries, nil
}
