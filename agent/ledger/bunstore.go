package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type employeeRow struct {
	bun.BaseModel `bun:"table:employee"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Name         string `bun:"name,unique,notnull"`
	AllowedDays  int    `bun:"allowed_days,notnull"`
	ConsumedDays int    `bun:"consumed_days,notnull,default:0"`
}

type timeoffHistoryRow struct {
	bun.BaseModel `bun:"table:timeoff_history"`

	ID         int64     `bun:"id,pk,autoincrement"`
	EmployeeID int64     `bun:"employee_id,notnull"`
	Employee   string    `bun:"employee_name,notnull"`
	StartDay   string    `bun:"start_day,notnull"`
	TotalDays  int       `bun:"total_days,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// BunStore persists the ledger in Postgres. Conflicting mutations on one
// employee serialize on a row lock inside a single transaction, which keeps
// the history append and the balance increment atomic.
type BunStore struct {
	db *bun.DB
}

type BunConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

func NewBunStore(ctx context.Context, cfg BunConfig) (*BunStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := &BunStore{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}
	if err := store.seed(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed ledger: %w", err)
	}
	return store, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*employeeRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}
	if _, err := s.db.NewCreateTable().
		Model((*timeoffHistoryRow)(nil)).
		IfNotExists().
		ForeignKey(`("employee_id") REFERENCES "employee" ("id")`).
		Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (s *BunStore) seed(ctx context.Context) error {
	for _, e := range SeedEmployees() {
		row := employeeRow{
			Name:         e.Name,
			AllowedDays:  e.AllowedDays,
			ConsumedDays: e.ConsumedDays,
		}
		if _, err := s.db.NewInsert().
			Model(&row).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *BunStore) GetBalance(ctx context.Context, name string) (int, error) {
	var row employeeRow
	err := s.db.NewSelect().
		Model(&row).
		Where("name = ?", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("query employee: %w", err)
	}
	return row.AllowedDays - row.ConsumedDays, nil
}

func (s *BunStore) RequestTimeoff(ctx context.Context, name, startDay string, days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var row employeeRow
		err := tx.NewSelect().
			Model(&row).
			Where("name = ?", name).
			For("UPDATE").
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("lock employee row: %w", err)
		}

		if row.ConsumedDays+days > row.AllowedDays {
			return fmt.Errorf("%w: requested %d, available %d",
				ErrInsufficientBalance, days, row.AllowedDays-row.ConsumedDays)
		}

		hist := timeoffHistoryRow{
			EmployeeID: row.ID,
			Employee:   row.Name,
			StartDay:   startDay,
			TotalDays:  days,
			CreatedAt:  time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(&hist).Exec(ctx); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if _, err := tx.NewUpdate().
			Model((*employeeRow)(nil)).
			Set("consumed_days = consumed_days + ?", days).
			Where("id = ?", row.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("update consumed days: %w", err)
		}
		return nil
	})
}

func (s *BunStore) History(ctx context.Context, name string) ([]TimeoffRequest, error) {
	exists, err := s.db.NewSelect().
		Model((*employeeRow)(nil)).
		Where("name = ?", name).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("query employee: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, name)
	}

	var rows []timeoffHistoryRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("employee_name = ?", name).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	out := make([]TimeoffRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, TimeoffRequest{
			Employee:  r.Employee,
			StartDay:  r.StartDay,
			Days:      r.TotalDays,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*BunStore)(nil)
