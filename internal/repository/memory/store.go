// Package memory provides single-process implementations of the storage
// collaborators, used for local development and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/audit"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
)

// Store holds all state behind one lock. A unit of work holds the write lock
// for its whole duration, so units of work are serialized.
type Store struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	holidays  []holiday.Holiday
	requests  map[string]leave.LeaveRequest
	audit     []audit.AuditEntry
}

func NewStore() *Store {
	return &Store{
		employees: make(map[string]employee.Employee),
		requests:  make(map[string]leave.LeaveRequest),
	}
}

type txKey struct{}

// inTx reports whether ctx belongs to a unit of work already holding s.mu.
func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements leave.Transactor. Writes made by fn are
// discarded if fn returns an error.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	employees map[string]employee.Employee
	holidays  []holiday.Holiday
	requests  map[string]leave.LeaveRequest
	audit     []audit.AuditEntry
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		employees: maps.Clone(s.employees),
		holidays:  slices.Clone(s.holidays),
		requests:  maps.Clone(s.requests),
		audit:     slices.Clone(s.audit),
	}
}

func (s *Store) restore(snap snapshot) {
	s.employees = snap.employees
	s.holidays = snap.holidays
	s.requests = snap.requests
	s.audit = snap.audit
}

// PutEmployee inserts or replaces a directory record.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) PutHoliday(h holiday.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
}
