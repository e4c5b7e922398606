package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
)

type auditRepositoryImpl struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.AuditRepository {
	return &auditRepositoryImpl{store: store}
}

func (r *auditRepositoryImpl) Create(ctx context.Context, entry audit.AuditEntry) (audit.AuditEntry, error) {
	defer r.store.write(ctx)()
	r.store.audit = append(r.store.audit, entry)
	return entry, nil
}

func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.AuditEntry, error) {
	defer r.store.read(ctx)()
	var out []audit.AuditEntry
	for _, e := range r.store.audit {
		if matches(e, filter) && r.ownedBy(e, filter.RequestOwnerIDs) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ActionTimestamp.Equal(out[j].ActionTimestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].ActionTimestamp.After(out[j].ActionTimestamp)
	})
	return out, nil
}

func matches(e audit.AuditEntry, f audit.Filter) bool {
	if f.LeaveRequestID != "" && e.LeaveRequestID != f.LeaveRequestID {
		return false
	}
	if f.ActorID != "" && e.PerformedBy != f.ActorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.From != nil && e.ActionTimestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.ActionTimestamp.After(*f.To) {
		return false
	}
	return true
}

func (r *auditRepositoryImpl) ownedBy(e audit.AuditEntry, owners []string) bool {
	if owners == nil {
		return true
	}
	request, ok := r.store.requests[e.LeaveRequestID]
	return ok && slices.Contains(owners, request.EmployeeID)
}
