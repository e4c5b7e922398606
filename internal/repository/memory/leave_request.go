package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
)

type leaveRequestRepositoryImpl struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{store: store}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.store.write(ctx)()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	if request.UpdatedAt.IsZero() {
		request.UpdatedAt = request.CreatedAt
	}
	r.store.requests[request.ID] = request
	return r.withNames(request), nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	defer r.store.read(ctx)()
	req, ok := r.store.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.withNames(req), nil
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, expected leave.LeaveRequestStatus) error {
	defer r.store.write(ctx)()
	stored, ok := r.store.requests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if stored.Status != expected {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	stored.Status = request.Status
	stored.ApprovedBy = request.ApprovedBy
	stored.ApprovedDate = request.ApprovedDate
	stored.Comments = request.Comments
	stored.UpdatedAt = request.UpdatedAt
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	r.store.requests[request.ID] = stored
	return nil
}

func (r *leaveRequestRepositoryImpl) FindActiveByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(req leave.LeaveRequest) bool {
		return req.EmployeeID == employeeID && req.Status.IsActive()
	}), nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(req leave.LeaveRequest) bool {
		return req.EmployeeID == employeeID
	}), nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployees(ctx context.Context, employeeIDs []string) ([]leave.LeaveRequest, error) {
	ids := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = struct{}{}
	}
	return r.filter(ctx, func(req leave.LeaveRequest) bool {
		_, ok := ids[req.EmployeeID]
		return ok
	}), nil
}

// filter returns matches ordered by start date, newest first.
func (r *leaveRequestRepositoryImpl) filter(ctx context.Context, keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	defer r.store.read(ctx)()
	var out []leave.LeaveRequest
	for _, req := range r.store.requests {
		if keep(req) {
			out = append(out, r.withNames(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

// withNames fills display names from the directory. Callers hold the lock.
func (r *leaveRequestRepositoryImpl) withNames(req leave.LeaveRequest) leave.LeaveRequest {
	if e, ok := r.store.employees[req.EmployeeID]; ok {
		name := e.FullName
		req.EmployeeName = &name
	}
	if req.ApprovedBy != nil {
		if e, ok := r.store.employees[*req.ApprovedBy]; ok {
			name := e.FullName
			req.ApproverName = &name
		}
	}
	return req
}
