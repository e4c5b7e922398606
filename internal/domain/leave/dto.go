package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
)

type SubmitLeaveRequestRequest struct {
	EmployeeID string `json:"-" validate:"required"`
	LeaveType  string `json:"leave_type" validate:"required,oneof=ANNUAL SICK CASUAL"`
	StartDate  string `json:"start_date" validate:"required,date"`
	EndDate    string `json:"end_date" validate:"required,date"`
	Reason     string `json:"reason" validate:"notblank,min=10,max=500"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	return validator.Struct(r)
}

// ReviewLeaveRequestRequest carries an approval or a rejection.
type ReviewLeaveRequestRequest struct {
	RequestID string  `json:"-" validate:"required"`
	ManagerID string  `json:"-" validate:"required"`
	Comments  *string `json:"comments,omitempty" validate:"omitempty,max=255"`
}

func (r *ReviewLeaveRequestRequest) Validate() error {
	return validator.Struct(r)
}

type CancelLeaveRequestRequest struct {
	RequestID  string  `json:"-" validate:"required"`
	EmployeeID string  `json:"-" validate:"required"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

func (r *CancelLeaveRequestRequest) Validate() error {
	return validator.Struct(r)
}

type WorkingDaysRequest struct {
	StartDate string `json:"start" validate:"required,date"`
	EndDate   string `json:"end" validate:"required,date"`
}

func (r *WorkingDaysRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	WorkingDays  int     `json:"working_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	AppliedDate  string  `json:"applied_date"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApproverName *string `json:"approver_name,omitempty"`
	ApprovedDate *string `json:"approved_date,omitempty"`
	Comments     *string `json:"comments,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest, workingDays int) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		LeaveType:    string(r.LeaveType),
		StartDate:    r.StartDate.Format(validator.DateLayout),
		EndDate:      r.EndDate.Format(validator.DateLayout),
		WorkingDays:  workingDays,
		Reason:       r.Reason,
		Status:       string(r.Status),
		AppliedDate:  r.AppliedDate.Format(validator.DateLayout),
		ApprovedBy:   r.ApprovedBy,
		ApproverName: r.ApproverName,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ApprovedDate != nil {
		d := r.ApprovedDate.Format(validator.DateLayout)
		resp.ApprovedDate = &d
	}
	return resp
}

type WorkingDaysResponse struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
}

type EntitlementResponse struct {
	EmployeeID          string `json:"employee_id"`
	Year                int    `json:"year"`
	StandardEntitlement int    `json:"standard_entitlement"`
	Entitlement         int    `json:"entitlement"`
	Balance             int    `json:"balance"`
}
