package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const unknownActorName = "Unknown"

// RequestService holds the leave request state machine. Every method expects
// to run inside a unit of work started by the caller.
type RequestService struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	holiday.HolidayRepository
	auditService audit.AuditService
	calculator   *WorkingDaysCalculator
	accountant   *BalanceAccountant
	overlap      *OverlapDetector
	clock        clockwork.Clock
}

func NewRequestService(
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	holidayRepository holiday.HolidayRepository,
	auditService audit.AuditService,
	accountant *BalanceAccountant,
	clock clockwork.Clock,
) *RequestService {
	return &RequestService{
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		HolidayRepository:      holidayRepository,
		auditService:           auditService,
		calculator:             NewWorkingDaysCalculator(),
		accountant:             accountant,
		overlap:                NewOverlapDetector(),
		clock:                  clock,
	}
}

func (r *RequestService) today() time.Time {
	return leave.DateOf(r.clock.Now())
}

// WorkingDays counts working days in [startDate, endDate] against the holiday
// calendar.
func (r *RequestService) WorkingDays(ctx context.Context, startDate, endDate time.Time) (int, error) {
	if startDate.After(endDate) {
		return 0, nil
	}
	holidays, err := r.HolidayRepository.HolidaysInRange(ctx, startDate, endDate)
	if err != nil {
		return 0, leave.Unavailable("failed to load holidays", err)
	}
	return r.calculator.Count(startDate, endDate, holidays), nil
}

func (r *RequestService) getEmployee(ctx context.Context, employeeID string, forUpdate bool) (employee.Employee, error) {
	var (
		emp employee.Employee
		err error
	)
	if forUpdate {
		emp, err = r.EmployeeRepository.GetByIDForUpdate(ctx, employeeID)
	} else {
		emp, err = r.EmployeeRepository.GetByID(ctx, employeeID)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, leave.NotFound("Employee not found with id: %s", employeeID)
		}
		return employee.Employee{}, leave.Unavailable("failed to get employee", err)
	}
	return emp, nil
}

func (r *RequestService) getRequest(ctx context.Context, requestID string, forUpdate bool) (leave.LeaveRequest, error) {
	var (
		request leave.LeaveRequest
		err     error
	)
	if forUpdate {
		request, err = r.LeaveRequestRepository.GetByIDForUpdate(ctx, requestID)
	} else {
		request, err = r.LeaveRequestRepository.GetByID(ctx, requestID)
	}
	if err != nil {
		return leave.LeaveRequest{}, leave.Unavailable("failed to get leave request", err)
	}
	return request, nil
}

// actorName resolves a display name for the audit ledger.
func (r *RequestService) actorName(ctx context.Context, employeeID string) (string, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return unknownActorName, nil
		}
		return "", leave.Unavailable("failed to get employee", err)
	}
	return emp.FullName, nil
}

// Submit validates and records a new PENDING request. It returns the request
// and its working-day count.
func (r *RequestService) Submit(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequest, int, error) {
	startDate, err := validator.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Invalid start date: %s", req.StartDate)
	}
	endDate, err := validator.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Invalid end date: %s", req.EndDate)
	}

	// Lock the employee so concurrent submissions see each other's requests.
	emp, err := r.getEmployee(ctx, req.EmployeeID, true)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	if startDate.After(endDate) {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Start date cannot be after end date")
	}
	if exceedsMaxRange(startDate, endDate) {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Leave request cannot span more than %d days", maxRangeDays)
	}
	if startDate.Before(r.today()) {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Cannot apply for leave in the past")
	}
	if startDate.Before(leave.DateOf(emp.JoiningDate)) {
		return leave.LeaveRequest{}, 0, leave.InvalidDate("Cannot apply for leave before joining date")
	}

	active, err := r.LeaveRequestRepository.FindActiveByEmployee(ctx, emp.ID)
	if err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to check overlapping leave requests", err)
	}
	if r.overlap.HasOverlap(active, startDate, endDate) {
		return leave.LeaveRequest{}, 0, leave.Overlap("Leave request overlaps with an existing pending or approved request")
	}

	workingDays, err := r.WorkingDays(ctx, startDate, endDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	leaveType := leave.LeaveType(req.LeaveType)
	if leaveType.ConsumesBalance() && !r.accountant.HasSufficientBalance(emp.AnnualLeaveBalance, workingDays) {
		return leave.LeaveRequest{}, 0, leave.InsufficientBalance(
			"Insufficient leave balance. Requested: %d days, Available: %d days",
			workingDays, emp.AnnualLeaveBalance)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, 0, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	now := r.clock.Now()
	request := leave.LeaveRequest{
		ID:          id.String(),
		EmployeeID:  emp.ID,
		LeaveType:   leaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
		AppliedDate: leave.DateOf(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := r.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to create leave request", err)
	}
	created.EmployeeName = &emp.FullName

	details := fmt.Sprintf("Leave request submitted for %d working days", workingDays)
	if _, err := r.auditService.Append(ctx, audit.AppendParams{
		LeaveRequestID: created.ID,
		Action:         audit.ActionSubmitted,
		ActorID:        emp.ID,
		ActorName:      emp.FullName,
		NewStatus:      statusPtr(created.Status),
		Details:        &details,
	}); err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to record audit entry", err)
	}

	return created, workingDays, nil
}

func (r *RequestService) Approve(ctx context.Context, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequest, int, error) {
	return r.review(ctx, req, leave.LeaveRequestStatusApproved, audit.ActionApproved, "approved")
}

func (r *RequestService) Reject(ctx context.Context, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequest, int, error) {
	return r.review(ctx, req, leave.LeaveRequestStatusRejected, audit.ActionRejected, "rejected")
}

// review moves a PENDING request to APPROVED or REJECTED on behalf of the
// employee's registered manager. Approved annual leave is deducted from the
// employee's balance.
func (r *RequestService) review(
	ctx context.Context,
	req leave.ReviewLeaveRequestRequest,
	newStatus leave.LeaveRequestStatus,
	action audit.Action,
	verb string,
) (leave.LeaveRequest, int, error) {
	request, err := r.getRequest(ctx, req.RequestID, true)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, 0, leave.InvalidState(
			"Invalid leave status: %s. Expected: %s", request.Status, leave.LeaveRequestStatusPending)
	}

	emp, err := r.getEmployee(ctx, request.EmployeeID, true)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	if !emp.IsManagedBy(req.ManagerID) {
		return leave.LeaveRequest{}, 0, leave.Unauthorized(
			"Manager %s is not authorized to review leave requests of employee %s", req.ManagerID, emp.ID)
	}

	oldStatus := request.Status
	today := r.today()
	managerID := req.ManagerID
	request.Status = newStatus
	request.ApprovedBy = &managerID
	request.ApprovedDate = &today
	request.Comments = req.Comments
	request.UpdatedAt = r.clock.Now()

	if err := r.LeaveRequestRepository.UpdateStatus(ctx, request, oldStatus); err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to update leave request", err)
	}

	workingDays, err := r.WorkingDays(ctx, request.StartDate, request.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	if newStatus == leave.LeaveRequestStatusApproved && request.LeaveType.ConsumesBalance() {
		remaining := r.accountant.Deduct(emp.AnnualLeaveBalance, workingDays)
		if err := r.EmployeeRepository.UpdateBalance(ctx, emp.ID, remaining); err != nil {
			return leave.LeaveRequest{}, 0, leave.Unavailable("failed to update leave balance", err)
		}
	}

	managerName, err := r.actorName(ctx, managerID)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}
	if managerName != unknownActorName {
		request.ApproverName = &managerName
	}

	details := fmt.Sprintf("Leave request %s by %s", verb, managerName)
	if _, err := r.auditService.Append(ctx, audit.AppendParams{
		LeaveRequestID: request.ID,
		Action:         action,
		ActorID:        managerID,
		ActorName:      managerName,
		OldStatus:      statusPtr(oldStatus),
		NewStatus:      statusPtr(newStatus),
		Comments:       req.Comments,
		Details:        &details,
	}); err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to record audit entry", err)
	}

	return request, workingDays, nil
}

// Cancel withdraws a PENDING request on behalf of the employee who submitted
// it. No balance is restored since none was deducted.
func (r *RequestService) Cancel(ctx context.Context, req leave.CancelLeaveRequestRequest) (leave.LeaveRequest, int, error) {
	request, err := r.getRequest(ctx, req.RequestID, true)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	if request.EmployeeID != req.EmployeeID {
		return leave.LeaveRequest{}, 0, leave.Unauthorized(
			"Employee %s is not authorized to cancel leave request %s", req.EmployeeID, request.ID)
	}

	if request.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, 0, leave.InvalidState(
			"Invalid leave status: %s. Expected: %s", request.Status, leave.LeaveRequestStatusPending)
	}

	oldStatus := request.Status
	request.Status = leave.LeaveRequestStatusCancelled
	request.Comments = req.Reason
	request.UpdatedAt = r.clock.Now()

	if err := r.LeaveRequestRepository.UpdateStatus(ctx, request, oldStatus); err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to update leave request", err)
	}

	employeeName, err := r.actorName(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}

	details := fmt.Sprintf("Leave request cancelled by %s", employeeName)
	if _, err := r.auditService.Append(ctx, audit.AppendParams{
		LeaveRequestID: request.ID,
		Action:         audit.ActionCancelled,
		ActorID:        req.EmployeeID,
		ActorName:      employeeName,
		OldStatus:      statusPtr(oldStatus),
		NewStatus:      statusPtr(request.Status),
		Comments:       req.Reason,
		Details:        &details,
	}); err != nil {
		return leave.LeaveRequest{}, 0, leave.Unavailable("failed to record audit entry", err)
	}

	workingDays, err := r.WorkingDays(ctx, request.StartDate, request.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, err
	}
	return request, workingDays, nil
}

func statusPtr(s leave.LeaveRequestStatus) *string {
	v := string(s)
	return &v
}
