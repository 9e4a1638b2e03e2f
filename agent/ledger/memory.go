package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a monitor-synchronized in-process Store. A single mutex
// covers the check-then-update sequence, so two concurrent requests for the
// same employee can never both pass the balance check against a stale read.
type MemoryStore struct {
	mu        sync.Mutex
	employees map[string]*Employee
	history   []TimeoffRequest
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		employees: make(map[string]*Employee, 4),
		now:       time.Now,
	}
	for _, e := range SeedEmployees() {
		emp := e
		s.employees[emp.Name] = &emp
	}
	return s
}

func (s *MemoryStore) GetBalance(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
	}
	return emp.Balance(), nil
}

func (s *MemoryStore) RequestTimeoff(ctx context.Context, name, startDay string, days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
	}
	if emp.ConsumedDays+days > emp.AllowedDays {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientBalance, days, emp.Balance())
	}

	s.history = append(s.history, TimeoffRequest{
		Employee:  name,
		StartDay:  startDay,
		Days:      days,
		CreatedAt: s.now().UTC(),
	})
	emp.ConsumedDays += days
	return nil
}

func (s *MemoryStore) History(ctx context.Context, name string) ([]TimeoffRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
	}

	var out []TimeoffRequest
	for _, r := range s.history {
		if r.Employee == name {
			out = append(out, r)
		}
	}
	return out, nil
}
