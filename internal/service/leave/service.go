package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
	"github.com/jonboulle/clockwork"
)


type LeaveServiceImpl struct {
	transactor leave.Transactor
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	requestService *RequestService
	accountant     *BalanceAccountant
	clock          clockwork.Clock
}

func NewLeaveService(
	transactor leave.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	holidayRepository holiday.HolidayRepository,
	auditService audit.AuditService,
	accountant *BalanceAccountant,
	clock clockwork.Clock,
) leave.LeaveService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LeaveServiceImpl{
		transactor:             transactor,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		requestService: NewRequestService(
			leaveRequestRepository, employeeRepository, holidayRepository, auditService, accountant, clock),
		accountant: accountant,
		clock:      clock,
	}
}

type transition func(ctx context.Context) (leave.LeaveRequest, int, error)

// run executes fn as one unit of work and logs the outcome.
func (l *LeaveServiceImpl) run(ctx context.Context, op string, fn transition, attrs ...any) (leave.LeaveRequestResponse, error) {
	var response leave.LeaveRequestResponse
	err := l.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, workingDays, err := fn(txCtx)
		if err != nil {
			return err
		}
		response = leave.NewLeaveRequestResponse(request, workingDays)
		return nil
	})
	if err != nil {
		err = leave.Unavailable(fmt.Sprintf("failed to %s leave request", op), err)
		logFailure(op, err, attrs...)
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request "+response.Status,
		append(attrs,
			"leave_request_id", response.ID,
			"employee_id", response.EmployeeID,
			"working_days", response.WorkingDays)...)
	return response, nil
}

func logFailure(op string, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "error", err)
	switch kind := leave.KindOf(err); kind {
	case leave.KindUnavailable, "":
		slog.Error("Leave request operation failed", attrs...)
	default:
		slog.Warn("Leave request rejected by policy", append(attrs, "kind", kind)...)
	}
}

// SubmitLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) SubmitLeaveRequest(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.run(ctx, "submit", func(txCtx context.Context) (leave.LeaveRequest, int, error) {
		return l.requestService.Submit(txCtx, req)
	}, "actor_id", req.EmployeeID)
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.run(ctx, "approve", func(txCtx context.Context) (leave.LeaveRequest, int, error) {
		return l.requestService.Approve(txCtx, req)
	}, "actor_id", req.ManagerID)
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.run(ctx, "reject", func(txCtx context.Context) (leave.LeaveRequest, int, error) {
		return l.requestService.Reject(txCtx, req)
	}, "actor_id", req.ManagerID)
}

// CancelLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, req leave.CancelLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.run(ctx, "cancel", func(txCtx context.Context) (leave.LeaveRequest, int, error) {
		return l.requestService.Cancel(txCtx, req)
	}, "actor_id", req.EmployeeID)
}

// GetLeaveRequest implements leave.LeaveService. Only the submitter and the
// submitter's manager may view a request; an empty viewerID skips the check.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID, viewerID string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.getRequest(ctx, requestID, false)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if viewerID != "" && viewerID != request.EmployeeID {
		emp, err := l.requestService.getEmployee(ctx, request.EmployeeID, false)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if !emp.IsManagedBy(viewerID) {
			return leave.LeaveRequestResponse{}, leave.Unauthorized(
				"Employee %s is not authorized to view leave request %s", viewerID, requestID)
		}
	}

	return l.toResponse(ctx, request)
}

// ListMyLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error) {
	if _, err := l.requestService.getEmployee(ctx, employeeID, false); err != nil {
		return nil, err
	}

	requests, err := l.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, leave.Unavailable("failed to list leave requests", err)
	}
	return l.toResponses(ctx, requests)
}

// ListTeamLeaveRequests implements leave.LeaveService. Only direct reports of
// managerID are included.
func (l *LeaveServiceImpl) ListTeamLeaveRequests(ctx context.Context, managerID string) ([]leave.LeaveRequestResponse, error) {
	reports, err := l.EmployeeRepository.ListByManager(ctx, managerID)
	if err != nil {
		return nil, leave.Unavailable("failed to list team members", err)
	}
	if len(reports) == 0 {
		return []leave.LeaveRequestResponse{}, nil
	}

	ids := make([]string, 0, len(reports))
	for _, e := range reports {
		ids = append(ids, e.ID)
	}

	requests, err := l.LeaveRequestRepository.ListByEmployees(ctx, ids)
	if err != nil {
		return nil, leave.Unavailable("failed to list leave requests", err)
	}
	return l.toResponses(ctx, requests)
}

// CountWorkingDays implements leave.LeaveService.
func (l *LeaveServiceImpl) CountWorkingDays(ctx context.Context, req leave.WorkingDaysRequest) (leave.WorkingDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	startDate, _ := validator.ParseDate(req.StartDate)
	endDate, _ := validator.ParseDate(req.EndDate)
	if exceedsMaxRange(startDate, endDate) {
		return leave.WorkingDaysResponse{}, validator.ValidationErrors{{
			Field:   "end",
			Message: fmt.Sprintf("range must not exceed %d days", maxRangeDays),
		}}
	}

	workingDays, err := l.requestService.WorkingDays(ctx, startDate, endDate)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	return leave.WorkingDaysResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		WorkingDays: workingDays,
	}, nil
}

// GetEntitlement implements leave.LeaveService. A zero year means the
// current year.
func (l *LeaveServiceImpl) GetEntitlement(ctx context.Context, employeeID string, year int) (leave.EntitlementResponse, error) {
	if year == 0 {
		year = l.clock.Now().Year()
	}
	if year < 1900 || year > 9999 {
		return leave.EntitlementResponse{}, validator.ValidationErrors{{
			Field:   "year",
			Message: "year must be between 1900 and 9999",
		}}
	}

	emp, err := l.requestService.getEmployee(ctx, employeeID, false)
	if err != nil {
		return leave.EntitlementResponse{}, err
	}

	return leave.EntitlementResponse{
		EmployeeID:          emp.ID,
		Year:                year,
		StandardEntitlement: l.accountant.StandardEntitlement(),
		Entitlement:         l.accountant.ProRatedEntitlement(emp.JoiningDate, year),
		Balance:             emp.AnnualLeaveBalance,
	}, nil
}

func (l *LeaveServiceImpl) toResponse(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequestResponse, error) {
	workingDays, err := l.requestService.WorkingDays(ctx, request.StartDate, request.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request, workingDays), nil
}

func (l *LeaveServiceImpl) toResponses(ctx context.Context, requests []leave.LeaveRequest) ([]leave.LeaveRequestResponse, error) {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		response, err := l.toResponse(ctx, request)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
