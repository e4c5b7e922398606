package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type AuditServiceImpl struct {
	audit.AuditRepository
	employee.EmployeeRepository
	clock clockwork.Clock

	mu   sync.Mutex
	last time.Time
}

func NewAuditService(
	auditRepository audit.AuditRepository,
	employeeRepository employee.EmployeeRepository,
	clock clockwork.Clock,
) audit.AuditService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuditServiceImpl{
		AuditRepository:    auditRepository,
		EmployeeRepository: employeeRepository,
		clock:              clock,
	}
}

// Append implements audit.AuditService.
func (s *AuditServiceImpl) Append(ctx context.Context, params audit.AppendParams) (audit.AuditEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return audit.AuditEntry{}, fmt.Errorf("failed to generate audit id: %w", err)
	}

	entry := audit.AuditEntry{
		ID:              id.String(),
		LeaveRequestID:  params.LeaveRequestID,
		Action:          params.Action,
		PerformedBy:     params.ActorID,
		PerformedByName: params.ActorName,
		ActionTimestamp: s.nextTimestamp(),
		OldStatus:       params.OldStatus,
		NewStatus:       params.NewStatus,
		Comments:        params.Comments,
		Details:         params.Details,
	}

	created, err := s.AuditRepository.Create(ctx, entry)
	if err != nil {
		return audit.AuditEntry{}, fmt.Errorf("failed to append audit entry: %w", err)
	}

	slog.Debug("Audit entry appended",
		"leave_request_id", created.LeaveRequestID,
		"action", created.Action,
		"performed_by", created.PerformedBy)
	return created, nil
}

// nextTimestamp is strictly increasing across calls, even when the clock
// stands still or steps backwards.
func (s *AuditServiceImpl) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC().Truncate(time.Microsecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

// ListByRequest implements audit.AuditService.
func (s *AuditServiceImpl) ListByRequest(ctx context.Context, requestID string) ([]audit.AuditEntry, error) {
	return s.list(ctx, audit.Filter{LeaveRequestID: requestID})
}

// ListByActor implements audit.AuditService.
func (s *AuditServiceImpl) ListByActor(ctx context.Context, actorID string) ([]audit.AuditEntry, error) {
	return s.list(ctx, audit.Filter{ActorID: actorID})
}

// ListByAction implements audit.AuditService.
func (s *AuditServiceImpl) ListByAction(ctx context.Context, action audit.Action) ([]audit.AuditEntry, error) {
	return s.list(ctx, audit.Filter{Action: action})
}

// ListInRange implements audit.AuditService.
func (s *AuditServiceImpl) ListInRange(ctx context.Context, from, to time.Time) ([]audit.AuditEntry, error) {
	return s.list(ctx, audit.Filter{From: &from, To: &to})
}

// Search implements audit.AuditService.
func (s *AuditServiceImpl) Search(ctx context.Context, viewerID string, req audit.SearchAuditRequest) ([]audit.AuditEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := req.ToFilter()
	if viewerID != "" {
		reports, err := s.EmployeeRepository.ListByManager(ctx, viewerID)
		if err != nil {
			return nil, leave.Unavailable("failed to list team members", err)
		}
		filter.RequestOwnerIDs = make([]string, 0, len(reports)+1)
		filter.RequestOwnerIDs = append(filter.RequestOwnerIDs, viewerID)
		for _, e := range reports {
			filter.RequestOwnerIDs = append(filter.RequestOwnerIDs, e.ID)
		}
	}

	entries, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	return audit.NewAuditEntryResponses(entries), nil
}

func (s *AuditServiceImpl) list(ctx context.Context, filter audit.Filter) ([]audit.AuditEntry, error) {
	entries, err := s.AuditRepository.List(ctx, filter)
	if err != nil {
		return nil, leave.Unavailable("failed to list audit entries", err)
	}
	return entries, nil
}
