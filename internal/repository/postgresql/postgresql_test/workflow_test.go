package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-workflow-go/internal/repository/postgresql"
	auditservice "github.com/cmlabs-hris/leave-workflow-go/internal/service/audit"
	leaveservice "github.com/cmlabs-hris/leave-workflow-go/internal/service/leave"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflow struct {
	service   leave.LeaveService
	audit     audit.AuditService
	employees employee.EmployeeRepository
	clock     *clockwork.FakeClock
}

func newWorkflow(t *testing.T, db *database.DB) *workflow {
	t.Helper()
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC))

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO employees (id, full_name, email, joining_date, manager_id, annual_leave_balance) VALUES
			('m1', 'Maya Manager', 'maya@example.com', '2020-03-01', NULL, 20),
			('e1', 'Alice Anders', 'alice@example.com', '2025-01-01', 'm1', 20)`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO holidays (id, name, holiday_date, recurring) VALUES
			('h1', 'Founders Day', '2025-06-04', FALSE)`)
	require.NoError(t, err)

	employees := postgresql.NewEmployeeRepository(db)
	auditService := auditservice.NewAuditService(postgresql.NewAuditRepository(db), employees, clock)
	return &workflow{
		service: leaveservice.NewLeaveService(
			postgresql.NewTransactor(db),
			postgresql.NewLeaveRequestRepository(db),
			employees,
			postgresql.NewHolidayRepository(db),
			auditService,
			leaveservice.NewBalanceAccountant(20),
			clock,
		),
		audit:     auditService,
		employees: employees,
		clock:     clock,
	}
}

func submitRequest(employeeID, start, end string) leave.SubmitLeaveRequestRequest {
	return leave.SubmitLeaveRequestRequest{
		EmployeeID: employeeID,
		LeaveType:  "ANNUAL",
		StartDate:  start,
		EndDate:    end,
		Reason:     "Family trip to the mountains",
	}
}

func TestPostgreSQL_SubmitApprove(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t, newTestDatabase(t))

	submitted, err := w.service.SubmitLeaveRequest(ctx, submitRequest("e1", "2025-06-02", "2025-06-06"))
	require.NoError(t, err)
	// 2025-06-04 is a holiday.
	assert.Equal(t, 4, submitted.WorkingDays)
	assert.Equal(t, "Alice Anders", *submitted.EmployeeName)

	approved, err := w.service.ApproveLeaveRequest(ctx, leave.ReviewLeaveRequestRequest{RequestID: submitted.ID, ManagerID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), approved.Status)
	assert.Equal(t, "Maya Manager", *approved.ApproverName)

	emp, err := w.employees.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 16, emp.AnnualLeaveBalance)

	entries, err := w.audit.ListByRequest(ctx, submitted.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionApproved, entries[0].Action)
	assert.Equal(t, "Maya Manager", entries[0].PerformedByName)

	_, err = w.service.RejectLeaveRequest(ctx, leave.ReviewLeaveRequestRequest{RequestID: submitted.ID, ManagerID: "m1"})
	assert.ErrorIs(t, err, leave.ErrInvalidState)
}

func TestPostgreSQL_OverlapAndCancel(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t, newTestDatabase(t))

	first, err := w.service.SubmitLeaveRequest(ctx, submitRequest("e1", "2025-06-02", "2025-06-06"))
	require.NoError(t, err)

	_, err = w.service.SubmitLeaveRequest(ctx, submitRequest("e1", "2025-06-06", "2025-06-10"))
	assert.ErrorIs(t, err, leave.ErrOverlap)

	_, err = w.service.CancelLeaveRequest(ctx, leave.CancelLeaveRequestRequest{RequestID: first.ID, EmployeeID: "e1"})
	require.NoError(t, err)

	_, err = w.service.SubmitLeaveRequest(ctx, submitRequest("e1", "2025-06-06", "2025-06-10"))
	assert.NoError(t, err)
}

func TestPostgreSQL_ConcurrentApprove_SingleWinner(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t, newTestDatabase(t))

	submitted, err := w.service.SubmitLeaveRequest(ctx, submitRequest("e1", "2025-06-09", "2025-06-13"))
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = w.service.ApproveLeaveRequest(ctx, leave.ReviewLeaveRequestRequest{RequestID: submitted.ID, ManagerID: "m1"})
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrInvalidState)
	}
	assert.Equal(t, 1, successes)

	emp, err := w.employees.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 15, emp.AnnualLeaveBalance)

	entries, err := w.audit.ListByAction(ctx, audit.ActionApproved)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
