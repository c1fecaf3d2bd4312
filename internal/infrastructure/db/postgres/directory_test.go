package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacy/storefront/internal/core/domain"
)

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDirectory_FindByEmail(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *domain.Principal
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "name", "email", "password", "created_at"}).
					AddRow("11111111-2222-3333-4444-555555555555", "Admin User", "admin@pharmacy.com", "admin123", created)
				mock.ExpectQuery(`SELECT id::text, name, email, password, created_at\s+FROM admins`).
					WithArgs("admin@pharmacy.com").
					WillReturnRows(rows)
			},
			want: &domain.Principal{
				ID:         "11111111-2222-3333-4444-555555555555",
				Name:       "Admin User",
				Email:      "admin@pharmacy.com",
				Credential: "admin123",
				CreatedAt:  created,
			},
		},
		{
			name: "absent",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM admins`).
					WithArgs("admin@pharmacy.com").
					WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password", "created_at"}))
			},
			want: nil,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM admins`).
					WithArgs("admin@pharmacy.com").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			got, err := NewDirectory(mock, AdminsTable).FindByEmail(context.Background(), "admin@pharmacy.com")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestDirectory_Save(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "Alice", "alice@example.com", "$2a$10$hash", created).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "Alice", "alice@example.com", "$2a$10$hash", created).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
			},
			wantErr: domain.ErrEmailAlreadyInUse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			saved, err := NewDirectory(mock, UsersTable).Save(context.Background(), &domain.Principal{
				Name: "Alice", Email: "alice@example.com", Credential: "$2a$10$hash", CreatedAt: created,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				_, parseErr := uuid.Parse(saved.ID)
				assert.NoError(t, parseErr)
				assert.Equal(t, "alice@example.com", saved.Email)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestDirectory_SaveStampsCreatedAt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Bob", "bob@example.com", "h", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	d := NewDirectory(mock, UsersTable)
	d.now = func() time.Time { return created }

	saved, err := d.Save(context.Background(), &domain.Principal{Name: "Bob", Email: "bob@example.com", Credential: "h"})
	require.NoError(t, err)
	assert.Equal(t, created, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS admins`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, NewDirectory(mock, AdminsTable).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestDirectories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS admins`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnError(errors.New("permission denied"))

	_, _, err = Directories(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
	assert.NoError(t, mock.ExpectationsWereMet())
}
