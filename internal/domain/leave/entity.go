package leave

import "time"

type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "ANNUAL"
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeCasual LeaveType = "CASUAL"
)

var leaveTypes = []LeaveType{LeaveTypeAnnual, LeaveTypeSick, LeaveTypeCasual}

func (t LeaveType) IsValid() bool {
	for _, lt := range leaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// ConsumesBalance reports whether approved leave of this type is deducted
// from the employee's annual balance.
func (t LeaveType) ConsumesBalance() bool {
	return t == LeaveTypeAnnual
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "PENDING"
	LeaveRequestStatusApproved  LeaveRequestStatus = "APPROVED"
	LeaveRequestStatusRejected  LeaveRequestStatus = "REJECTED"
	LeaveRequestStatusCancelled LeaveRequestStatus = "CANCELLED"
)

// IsActive reports whether a request in this status blocks overlapping
// submissions.
func (s LeaveRequestStatus) IsActive() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusApproved
}

func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved ||
		s == LeaveRequestStatusRejected ||
		s == LeaveRequestStatusCancelled
}

// LeaveRequest entity. StartDate, EndDate and AppliedDate are calendar dates
// stored at midnight UTC.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time
	EndDate   time.Time
	Reason    string

	Status       LeaveRequestStatus
	AppliedDate  time.Time
	ApprovedBy   *string
	ApprovedDate *time.Time
	Comments     *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	ApproverName *string
}

// Overlaps reports whether the inclusive range [start, end] shares at least
// one calendar date with this request.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !start.After(r.EndDate)
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
