package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)

	GetRequest(w http.ResponseWriter, r *http.Request)
	GetRequestAudit(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetTeamRequests(w http.ResponseWriter, r *http.Request)

	CountWorkingDays(w http.ResponseWriter, r *http.Request)
	GetMyEntitlement(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	auditService audit.AuditService
}

func NewLeaveHandler(leaveService leave.LeaveService, auditService audit.AuditService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		auditService: auditService,
	}
}

// decodeOptionalJSON decodes the request body into v; an empty body is allowed.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func currentEmployee(w http.ResponseWriter, r *http.Request) (string, bool) {
	employeeID, ok := middleware.EmployeeID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return employeeID, ok
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	// The submitter always comes from the token.
	req.EmployeeID = employeeID

	leaveRequest, err := l.leaveService.SubmitLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leaveRequest)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := l.decodeReview(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.ApproveLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := l.decodeReview(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.RejectLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leaveRequest)
}

func (l *LeaveHandlerImpl) decodeReview(w http.ResponseWriter, r *http.Request) (leave.ReviewLeaveRequestRequest, bool) {
	var req leave.ReviewLeaveRequestRequest
	managerID, ok := currentEmployee(w, r)
	if !ok {
		return req, false
	}

	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Debug("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	req.RequestID = chi.URLParam(r, "id")
	req.ManagerID = managerID
	return req, true
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	var req leave.CancelLeaveRequestRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Debug("CancelRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")
	req.EmployeeID = employeeID

	leaveRequest, err := l.leaveService.CancelLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", leaveRequest)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveRequest)
}

// GetRequestAudit implements LeaveHandler. The trail is visible to whoever
// may view the request itself.
func (l *LeaveHandlerImpl) GetRequestAudit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	if _, err := l.leaveService.GetLeaveRequest(r.Context(), requestID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := l.auditService.ListByRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, audit.NewAuditEntryResponses(entries))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.ListMyLeaveRequests(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// GetTeamRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetTeamRequests(w http.ResponseWriter, r *http.Request) {
	managerID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.ListTeamLeaveRequests(r.Context(), managerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// CountWorkingDays implements LeaveHandler.
func (l *LeaveHandlerImpl) CountWorkingDays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := l.leaveService.CountWorkingDays(r.Context(), leave.WorkingDaysRequest{
		StartDate: query.Get("start"),
		EndDate:   query.Get("end"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyEntitlement implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyEntitlement(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := currentEmployee(w, r)
	if !ok {
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid year", map[string]string{"year": "year must be a number"})
			return
		}
		year = parsed
	}

	entitlement, err := l.leaveService.GetEntitlement(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entitlement)
}
