package audit

import (
	"context"
	"time"
)

type AppendParams struct {
	LeaveRequestID string
	Action         Action
	ActorID        string
	ActorName      string
	OldStatus      *string
	NewStatus      *string
	Comments       *string
	Details        *string
}

type AuditService interface {
	// Append always records the entry and stamps it with a timestamp later
	// than any previously appended entry.
	Append(ctx context.Context, params AppendParams) (AuditEntry, error)
	ListByRequest(ctx context.Context, requestID string) ([]AuditEntry, error)
	ListByActor(ctx context.Context, actorID string) ([]AuditEntry, error)
	ListByAction(ctx context.Context, action Action) ([]AuditEntry, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]AuditEntry, error)
	// Search only returns entries of requests submitted by viewerID or by one
	// of viewerID's direct reports. An empty viewerID searches the whole ledger.
	Search(ctx context.Context, viewerID string, req SearchAuditRequest) ([]AuditEntryResponse, error)
}
