package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-workflow-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/leave-workflow-go/internal/service/audit"
	leaveService "github.com/cmlabs-hris/leave-workflow-go/internal/service/leave"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testManagerID     = "emp-manager"
	testEmployeeID    = "emp-alice"
	testOutsiderID    = "emp-outsider"
)

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
	store   *memory.Store
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func strPtr(s string) *string { return &s }

// newTestServer wires the full router over the in-memory store. The leave
// clock is fixed at 2025-05-15; tokens use the real clock.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC))

	store.PutEmployee(employee.Employee{ID: testManagerID, FullName: "Maya Manager", JoiningDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), AnnualLeaveBalance: 20})
	store.PutEmployee(employee.Employee{ID: testOutsiderID, FullName: "Omar Outsider", JoiningDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), AnnualLeaveBalance: 20})
	store.PutEmployee(employee.Employee{
		ID: testEmployeeID, FullName: "Alice Anders", JoiningDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ManagerID: strPtr(testManagerID), AnnualLeaveBalance: 20,
	})

	audits := auditService.NewAuditService(memory.NewAuditRepository(store), memory.NewEmployeeRepository(store), clock)
	leaves := leaveService.NewLeaveService(
		store,
		memory.NewLeaveRequestRepository(store),
		memory.NewEmployeeRepository(store),
		memory.NewHolidayRepository(store),
		audits,
		leaveService.NewBalanceAccountant(20),
		clock,
	)

	jwtService, err := jwt.NewJWTService(handlerTestSecret, "1h", nil)
	require.NoError(t, err)

	router := NewRouter(
		RouterOptions{Env: "test", Version: "test", AllowedOrigins: []string{"http://localhost:3000"}, RateLimiter: middleware.NewRateLimiter(1000, 1000, nil)},
		jwtService,
		NewAuthHandler(jwtService),
		NewLeaveHandler(leaves, audits),
		NewAuditHandler(audits),
	)
	return &testServer{handler: router, jwt: jwtService, store: store}
}

func (s *testServer) token(t *testing.T, employeeID string) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func submitBody(start, end string) map[string]string {
	return map[string]string{
		"leave_type": "ANNUAL",
		"start_date": start,
		"end_date":   end,
		"reason":     "Family trip to the mountains",
	}
}

type leaveRequestJSON struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Status      string  `json:"status"`
	WorkingDays int     `json:"working_days"`
	ApprovedBy  *string `json:"approved_by"`
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestLeaveHandler_SubmitApproveFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)
	manager := s.token(t, testManagerID)

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-06"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted leaveRequestJSON
	decodeData(t, env, &submitted)
	assert.Equal(t, "PENDING", submitted.Status)
	assert.Equal(t, testEmployeeID, submitted.EmployeeID)
	assert.Equal(t, 5, submitted.WorkingDays)

	rec, env = s.do(t, http.MethodPut, "/api/v1/leave-requests/"+submitted.ID+"/approve", alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, env = s.do(t, http.MethodPut, "/api/v1/leave-requests/"+submitted.ID+"/approve", manager, map[string]string{"comments": "Enjoy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved leaveRequestJSON
	decodeData(t, env, &approved)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, testManagerID, *approved.ApprovedBy)

	rec, env = s.do(t, http.MethodPut, "/api/v1/leave-requests/"+submitted.ID+"/reject", manager, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/employees/me/entitlement?year=2025", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entitlement struct {
		Balance     int `json:"balance"`
		Entitlement int `json:"entitlement"`
	}
	decodeData(t, env, &entitlement)
	assert.Equal(t, 15, entitlement.Balance)
	assert.Equal(t, 20, entitlement.Entitlement)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave-requests/"+submitted.ID+"/audit", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trail []struct {
		Action      string `json:"action"`
		PerformedBy string `json:"performed_by"`
	}
	decodeData(t, env, &trail)
	require.Len(t, trail, 2)
	assert.Equal(t, "APPROVED", trail[0].Action)
	assert.Equal(t, testManagerID, trail[0].PerformedBy)
	assert.Equal(t, "SUBMITTED", trail[1].Action)
}

func TestLeaveHandler_SubmitErrors(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "past start",
			body:       submitBody("2025-05-01", "2025-05-02"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "insufficient balance",
			body:       submitBody("2025-06-02", "2025-06-30"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_BALANCE",
		},
		{
			name:       "short reason",
			body:       map[string]string{"leave_type": "ANNUAL", "start_date": "2025-06-02", "end_date": "2025-06-03", "reason": "trip"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown leave type",
			body:       map[string]string{"leave_type": "SABBATICAL", "start_date": "2025-06-02", "end_date": "2025-06-03", "reason": "Family trip to the mountains"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestLeaveHandler_SubmitOverlap(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-06"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-05", "2025-06-09"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OVERLAP", env.Error.Code)
}

func TestLeaveHandler_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token(t, testEmployeeID))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaveHandler_CancelAndVisibility(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)
	manager := s.token(t, testManagerID)
	outsider := s.token(t, testOutsiderID)

	_, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-03"))
	var submitted leaveRequestJSON
	decodeData(t, env, &submitted)
	path := "/api/v1/leave-requests/" + submitted.ID

	rec, _ := s.do(t, http.MethodGet, path, manager, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, path, outsider, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, path+"/audit", outsider, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, path+"/cancel", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPut, path+"/cancel", alice, map[string]string{"reason": "Plans changed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled leaveRequestJSON
	decodeData(t, env, &cancelled)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave-requests/missing", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestLeaveHandler_Lists(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-03"))
	s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-07-01", "2025-07-02"))

	rec, env := s.do(t, http.MethodGet, "/api/v1/leave-requests/my", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []leaveRequestJSON
	decodeData(t, env, &mine)
	assert.Len(t, mine, 2)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave-requests/team", s.token(t, testManagerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var team []leaveRequestJSON
	decodeData(t, env, &team)
	assert.Len(t, team, 2)

	rec, env = s.do(t, http.MethodGet, "/api/v1/leave-requests/team", s.token(t, testOutsiderID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var none []leaveRequestJSON
	decodeData(t, env, &none)
	assert.Empty(t, none)
}

func TestLeaveHandler_CountWorkingDays(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	rec, env := s.do(t, http.MethodGet, "/api/v1/working-days?start=2025-06-02&end=2025-06-15", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		WorkingDays int `json:"working_days"`
	}
	decodeData(t, env, &result)
	assert.Equal(t, 10, result.WorkingDays)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/working-days?start=2025-06-02", alice, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLeaveHandler_EntitlementInvalidYear(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/employees/me/entitlement?year=soon", s.token(t, testEmployeeID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditHandler_Search(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	_, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-03"))
	var submitted leaveRequestJSON
	decodeData(t, env, &submitted)
	s.do(t, http.MethodPut, "/api/v1/leave-requests/"+submitted.ID+"/reject", s.token(t, testManagerID), nil)

	rec, env := s.do(t, http.MethodGet, "/api/v1/audit?action=REJECTED&from=2025-05-15&to=2025-05-15", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Action         string `json:"action"`
		LeaveRequestID string `json:"leave_request_id"`
	}
	decodeData(t, env, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, submitted.ID, entries[0].LeaveRequestID)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/audit?action=DELETED", alice, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuditHandler_Search_HidesOtherEmployeesRequests(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, testEmployeeID)

	s.do(t, http.MethodPost, "/api/v1/leave-requests", alice, submitBody("2025-06-02", "2025-06-03"))

	for _, query := range []string{"", "?actor_id=" + testEmployeeID} {
		rec, env := s.do(t, http.MethodGet, "/api/v1/audit"+query, s.token(t, testOutsiderID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var entries []json.RawMessage
		decodeData(t, env, &entries)
		assert.Empty(t, entries, query)
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/audit", s.token(t, testManagerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []json.RawMessage
	decodeData(t, env, &entries)
	assert.Len(t, entries, 1)
}

func TestAuth_RequiredAndLogout(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/leave-requests/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.token(t, testEmployeeID)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/leave-requests/my", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
