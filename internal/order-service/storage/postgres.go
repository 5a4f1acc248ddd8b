// Package storage persists order documents in PostgreSQL. Items are stored
// as a JSONB column; orders have no foreign key on user_id — the
// orchestrator is the sole enforcement point for user existence.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/quickcart/orderflow/internal/order-service/domain"
)

// Store describes the persistence operations the order service needs.
type Store interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

// Postgres implements Store over database/sql with the pgx driver.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// Open connects to the database identified by dsn and tunes the pool.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	return NewPostgres(db), nil
}

// NewPostgres wraps an existing pool. Used by tests with sqlmock.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Close() error { return s.db.Close() }

// itemRecord is the JSONB shape of a single order item.
type itemRecord struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Create inserts the order, assigning an id when none is set.
func (s *Postgres) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(itemsToRecords(o.Items))
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`insert into orders(id, user_id, items, status, total_amount, created_at) values($1,$2,$3,$4,$5,$6)`,
		o.ID, o.UserID, items, o.Status, o.TotalAmount, o.CreatedAt,
	)
	return err
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, user_id, items, status, total_amount, created_at from orders where id=$1`, id)
	return scanOrder(row)
}

// UpdateStatus sets the order's status and returns the updated order.
// Zero rows updated maps to domain.ErrNotFound.
func (s *Postgres) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `update orders set status=$2 where id=$1`, id, status)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var records []itemRecord
	if err := json.Unmarshal(items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	o.Items = recordsToItems(records)
	return &o, nil
}

func itemsToRecords(items []domain.OrderItem) []itemRecord {
	records := make([]itemRecord, len(items))
	for i, item := range items {
		records[i] = itemRecord{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return records
}

func recordsToItems(records []itemRecord) []domain.OrderItem {
	items := make([]domain.OrderItem, len(records))
	for i, rec := range records {
		items[i] = domain.OrderItem{
			ProductID: rec.ProductID,
			Quantity:  rec.Quantity,
			UnitPrice: rec.UnitPrice,
		}
	}
	return items
}
