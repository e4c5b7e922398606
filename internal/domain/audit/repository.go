package audit

import "context"

// AuditRepository is append-only. List returns entries most recent first.
type AuditRepository interface {
	Create(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	List(ctx context.Context, filter Filter) ([]AuditEntry, error)
}
