// Package storage persists user records in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/quickcart/orderflow/internal/user-service/domain"
)

// Store describes the persistence operations the user service needs.
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Postgres implements Store over database/sql with the pgx driver.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// Open connects to the database identified by dsn and tunes the pool.
// The pool is shared by all concurrent requests for the process lifetime.
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

// Create inserts the user, assigning an id when none is set.
// A unique violation on username maps to domain.ErrAlreadyExists.
func (s *Postgres) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, username, email, password_hash, created_at) values($1,$2,$3,$4,$5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.findBy(ctx,
		`select id, username, email, password_hash, created_at from users where id=$1`, id)
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findBy(ctx,
		`select id, username, email, password_hash, created_at from users where username=$1`, username)
}

func (s *Postgres) findBy(ctx context.Context, query, arg string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, query, arg)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
