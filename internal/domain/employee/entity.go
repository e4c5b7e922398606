package employee

import "time"

// Employee is the directory record the leave workflow reads. Only
// AnnualLeaveBalance is ever written back by the workflow.
type Employee struct {
	ID                 string
	FullName           string
	Email              string
	JoiningDate        time.Time
	ManagerID          *string
	AnnualLeaveBalance int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsManagedBy reports whether managerID is this employee's registered manager.
func (e Employee) IsManagedBy(managerID string) bool {
	return e.ManagerID != nil && *e.ManagerID != "" && *e.ManagerID == managerID
}
