// Package ledger owns employee time-off balances and request history. It is
// the only durable mutable state in the mesh, so every implementation must
// make the read-validate-write-append sequence of RequestTimeoff a single
// atomic unit per employee.
package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrInsufficientBalance = errors.New("not enough timeoff balance")
	ErrInvalidDays         = errors.New("days must be a positive integer")
)

// Employee tracks the fixed allowance and running consumption for one
// person. AllowedDays never changes during a run; there is no accrual.
type Employee struct {
	Name         string
	AllowedDays  int
	ConsumedDays int
}

func (e Employee) Balance() int {
	return e.AllowedDays - e.ConsumedDays
}

// TimeoffRequest is one approved request. Records are append-only and never
// deleted.
type TimeoffRequest struct {
	Employee  string
	StartDay  string
	Days      int
	CreatedAt time.Time
}

type Store interface {
	// GetBalance returns allowed minus consumed days, or ErrEmployeeNotFound.
	GetBalance(ctx context.Context, name string) (int, error)

	// RequestTimeoff appends a history record and increments consumption in
	// one atomic step. Exactly reaching the allowance is permitted;
	// exceeding it fails with ErrInsufficientBalance and leaves no trace.
	RequestTimeoff(ctx context.Context, name, startDay string, days int) error

	// History returns the append-only request records for one employee,
	// oldest first.
	History(ctx context.Context, name string) ([]TimeoffRequest, error)
}

// SeedEmployees is the fixed initial state every store starts from.
func SeedEmployees() []Employee {
	return []Employee{
		{Name: "Alice", AllowedDays: 20, ConsumedDays: 5},
		{Name: "Bob", AllowedDays: 15, ConsumedDays: 3},
		{Name: "Charlie", AllowedDays: 25, ConsumedDays: 10},
	}
}
