package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pharmacy/storefront/internal/core/domain"
)

// Table names for the two principal directories.
const (
	AdminsTable = "admins"
	UsersTable  = "users"
)

// querier is the subset of *pgxpool.Pool the directory needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Directory stores principals in one table with a unique email column.
type Directory struct {
	db    querier
	table string
	now   func() time.Time
}

// NewDirectory returns a directory over table. table must be one of the
// package constants; it is interpolated into SQL.
func NewDirectory(db querier, table string) *Directory {
	return &Directory{db: db, table: table, now: time.Now}
}

// EnsureSchema creates the table when it does not exist.
func (d *Directory) EnsureSchema(ctx context.Context) error {
	_, err := d.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, d.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", d.table, err)
	}
	return nil
}

func (d *Directory) Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	stored := *p
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = d.now().UTC()
	}

	_, err := d.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)`, d.table),
		stored.ID, stored.Name, stored.Email, stored.Credential, stored.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("insert %s: %w", d.table, err)
	}
	return &stored, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	var p domain.Principal
	err := d.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT id::text, name, email, password, created_at
		FROM %s
		WHERE email = $1`, d.table), email,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Credential, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", d.table, err)
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Directories opens the admin and customer directories over db and creates
// their tables when missing.
func Directories(ctx context.Context, db querier) (admins, users *Directory, err error) {
	admins = NewDirectory(db, AdminsTable)
	users = NewDirectory(db, UsersTable)

	for _, d := range []*Directory{admins, users} {
		if err := d.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
	}
	return admins, users, nil
}
