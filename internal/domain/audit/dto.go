package audit

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
)

type SearchAuditRequest struct {
	ActorID string `json:"actor_id"`
	Action  string `json:"action" validate:"omitempty,oneof=CREATED SUBMITTED APPROVED REJECTED CANCELLED UPDATED"`
	From    string `json:"from" validate:"omitempty,date"`
	To      string `json:"to" validate:"omitempty,date"`
}

func (r *SearchAuditRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		return validator.ValidationErrors{{Field: "from", Message: "from must not be after to"}}
	}
	return nil
}

// ToFilter converts the request into a ledger filter. The to bound covers the
// whole of its day.
func (r *SearchAuditRequest) ToFilter() Filter {
	f := Filter{ActorID: r.ActorID, Action: Action(r.Action)}
	if from, ok := validator.IsValidDate(r.From); ok {
		f.From = &from
	}
	if to, ok := validator.IsValidDate(r.To); ok {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	return f
}

type AuditEntryResponse struct {
	ID              string  `json:"id"`
	LeaveRequestID  string  `json:"leave_request_id"`
	Action          string  `json:"action"`
	PerformedBy     string  `json:"performed_by"`
	PerformedByName string  `json:"performed_by_name"`
	ActionTimestamp string  `json:"action_timestamp"`
	OldStatus       *string `json:"old_status,omitempty"`
	NewStatus       *string `json:"new_status,omitempty"`
	Comments        *string `json:"comments,omitempty"`
	Details         *string `json:"details,omitempty"`
}

func NewAuditEntryResponse(e AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:              e.ID,
		LeaveRequestID:  e.LeaveRequestID,
		Action:          string(e.Action),
		PerformedBy:     e.PerformedBy,
		PerformedByName: e.PerformedByName,
		ActionTimestamp: e.ActionTimestamp.Format(time.RFC3339Nano),
		OldStatus:       e.OldStatus,
		NewStatus:       e.NewStatus,
		Comments:        e.Comments,
		Details:         e.Details,
	}
}

func NewAuditEntryResponses(entries []AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewAuditEntryResponse(e))
	}
	return out
}
