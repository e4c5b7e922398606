package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"employee not found", fmt.Errorf("lookup: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid date", leave.InvalidDate("Cannot apply for leave in the past"), http.StatusBadRequest, "BAD_REQUEST"},
		{"overlap", leave.Overlap("overlaps"), http.StatusConflict, "OVERLAP"},
		{"insufficient balance", leave.InsufficientBalance("Requested: %d days", 5), http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
		{"unauthorized", leave.Unauthorized("not the manager"), http.StatusForbidden, "FORBIDDEN"},
		{"invalid state", leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "INVALID_STATE"},
		{"unavailable", leave.Unavailable("failed to update", errors.New("conn reset")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"validation", validator.ValidationErrors{{Field: "reason", Message: "reason is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "reason", Message: "reason must be at least 10 characters"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reason must be at least 10 characters", body.Error.Details["reason"])
}

func TestHandleError_UnavailableHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, leave.Unavailable("failed to create leave request", errors.New("password authentication failed")))

	assert.NotContains(t, rec.Body.String(), "password")
}
