package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestGetBalanceSeedData(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	cases := []struct {
		name string
		want int
	}{
		{"Alice", 15},
		{"Bob", 12},
		{"Charlie", 15},
	}
	for _, tc := range cases {
		got, err := store.GetBalance(context.Background(), tc.name)
		if err != nil {
			t.Fatalf("GetBalance(%s) error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("GetBalance(%s) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestGetBalanceUnknownEmployee(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.GetBalance(context.Background(), "Mallory")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestRequestTimeoffDeductsBalance(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.RequestTimeoff(ctx, "Alice", "2025-05-05", 5); err != nil {
		t.Fatalf("RequestTimeoff() error = %v", err)
	}

	balance, err := store.GetBalance(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance != 10 {
		t.Fatalf("balance after request = %d, want 10", balance)
	}

	hist, err := store.History(ctx, "Alice")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(hist))
	}
	if hist[0].StartDay != "2025-05-05" || hist[0].Days != 5 {
		t.Fatalf("unexpected history record: %#v", hist[0])
	}
}

func TestRequestTimeoffExactAllowanceIsPermitted(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	// Alice has 15 days left; taking exactly 15 must succeed.
	if err := store.RequestTimeoff(ctx, "Alice", "2025-06-01", 15); err != nil {
		t.Fatalf("RequestTimeoff() error = %v", err)
	}
	balance, err := store.GetBalance(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance != 0 {
		t.Fatalf("balance = %d, want 0", balance)
	}

	// One more day must be rejected.
	err = store.RequestTimeoff(ctx, "Alice", "2025-07-01", 1)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestRequestTimeoffInsufficientBalanceLeavesNoTrace(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	err := store.RequestTimeoff(ctx, "Bob", "2025-05-05", 13)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	balance, err := store.GetBalance(ctx, "Bob")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance != 12 {
		t.Fatalf("balance changed on rejected request: %d", balance)
	}

	hist, err := store.History(ctx, "Bob")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("rejected request left history records: %#v", hist)
	}
}

func TestRequestTimeoffUnknownEmployeeCreatesNoHistory(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	err := store.RequestTimeoff(ctx, "Mallory", "2025-05-05", 1)
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	store.mu.Lock()
	records := len(store.history)
	store.mu.Unlock()
	if records != 0 {
		t.Fatalf("unknown employee created %d history records", records)
	}
}

func TestRequestTimeoffRejectsNonPositiveDays(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	for _, days := range []int{0, -3} {
		err := store.RequestTimeoff(context.Background(), "Alice", "2025-05-05", days)
		if !errors.Is(err, ErrInvalidDays) {
			t.Fatalf("days=%d: expected ErrInvalidDays, got %v", days, err)
		}
	}
}

func TestConcurrentRequestsExactlyOneWins(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	// Alice has 15 days left. Two concurrent 10-day requests exceed it
	// combined; exactly one may pass the balance check.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.RequestTimeoff(ctx, "Alice", "2025-05-05", 10)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("expected exactly one success and one rejection, got ok=%d rejected=%d", ok, rejected)
	}

	balance, err := store.GetBalance(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance != 5 {
		t.Fatalf("final balance = %d, want 5 (exactly one deduction)", balance)
	}

	hist, err := store.History(ctx, "Alice")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("expected exactly one history record, got %d", len(hist))
	}
}

func TestBalanceInvariantHoldsUnderLoad(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RequestTimeoff(ctx, "Charlie", "2025-08-01", 2)
		}()
	}
	wg.Wait()

	balance, err := store.GetBalance(ctx, "Charlie")
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance < 0 {
		t.Fatalf("balance went negative: %d", balance)
	}

	store.mu.Lock()
	emp := *store.employees["Charlie"]
	store.mu.Unlock()
	if emp.ConsumedDays > emp.AllowedDays {
		t.Fatalf("consumed %d exceeds allowed %d", emp.ConsumedDays, emp.AllowedDays)
	}
}
