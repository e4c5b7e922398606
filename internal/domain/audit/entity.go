package audit

import "time"

type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionSubmitted Action = "SUBMITTED"
	ActionApproved  Action = "APPROVED"
	ActionRejected  Action = "REJECTED"
	ActionCancelled Action = "CANCELLED"
	ActionUpdated   Action = "UPDATED"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionSubmitted, ActionApproved, ActionRejected, ActionCancelled, ActionUpdated:
		return true
	}
	return false
}

// AuditEntry is an immutable record of one leave request transition. It
// refers to its request by identifier only.
type AuditEntry struct {
	ID              string
	LeaveRequestID  string
	Action          Action
	PerformedBy     string
	PerformedByName string
	ActionTimestamp time.Time
	OldStatus       *string
	NewStatus       *string
	Comments        *string
	Details         *string
}

// Filter narrows a ledger query. Zero fields are ignored; From and To are
// inclusive bounds on ActionTimestamp. A non-nil RequestOwnerIDs keeps only
// entries of leave requests submitted by one of those employees.
type Filter struct {
	LeaveRequestID  string
	ActorID         string
	Action          Action
	From            *time.Time
	To              *time.Time
	RequestOwnerIDs []string
}
