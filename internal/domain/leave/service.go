package leave

import (
	"context"
)

type LeaveService interface {
	// Workflow
	SubmitLeaveRequest(ctx context.Context, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, req ReviewLeaveRequestRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, req ReviewLeaveRequestRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, req CancelLeaveRequestRequest) (LeaveRequestResponse, error)
	// Read
	GetLeaveRequest(ctx context.Context, requestID, viewerID string) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	ListTeamLeaveRequests(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	CountWorkingDays(ctx context.Context, req WorkingDaysRequest) (WorkingDaysResponse, error)
	GetEntitlement(ctx context.Context, employeeID string, year int) (EntitlementResponse, error)
}
