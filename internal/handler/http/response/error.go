package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if errors.Is(err, jwt.ErrInvalidToken) {
		Unauthorized(w, err.Error())
		return
	}
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		NotFound(w, "Employee not found")
		return
	}

	var leaveErr *leave.Error
	if !errors.As(err, &leaveErr) {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch leaveErr.Kind {
	case leave.KindNotFound:
		NotFound(w, leaveErr.Message)
	case leave.KindInvalidDate:
		BadRequest(w, leaveErr.Message, nil)
	case leave.KindOverlap:
		Conflict(w, "OVERLAP", leaveErr.Message)
	case leave.KindInsufficientBalance:
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", leaveErr.Message)
	case leave.KindUnauthorized:
		Forbidden(w, leaveErr.Message)
	case leave.KindInvalidState:
		Conflict(w, "INVALID_STATE", leaveErr.Message)
	case leave.KindUnavailable:
		// The cause may carry driver details; keep it in the logs.
		slog.Error("Service unavailable", "error", err)
		ServiceUnavailable(w, leaveErr.Message)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
