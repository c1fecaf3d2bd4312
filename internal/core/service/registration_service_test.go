package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
	"github.com/pharmacy/storefront/internal/infrastructure/password"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestRegistrationService(customers *stubDirectory, reserver ports.EmailReserver) *RegistrationService {
	svc := NewRegistrationService(customers, stubEncoder{}, reserver, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func alice() ports.RegisterInput {
	return ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
}

func TestRegister_Success(t *testing.T) {
	customers := newStubDirectory()
	svc := newTestRegistrationService(customers, nil)

	account, err := svc.Register(context.Background(), alice())
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "Alice", account.Name)
	assert.Equal(t, "alice@example.com", account.Email)

	stored := customers.get("alice@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.Credential)
	assert.Equal(t, fixedNow, stored.CreatedAt)

	auth := newTestAuthService(newStubDirectory(), customers)
	id, err := auth.Authenticate(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, id.Role)
	assert.Equal(t, account.ID, id.PrincipalID)
	assert.False(t, id.Legacy)
}

func TestRegister_WithRealEncoder(t *testing.T) {
	enc, err := password.New(password.Options{Algorithm: password.AlgorithmBcrypt, BcryptCost: 4})
	require.NoError(t, err)

	customers := newStubDirectory()
	svc := NewRegistrationService(customers, enc, nil, zerolog.Nop())

	_, err = svc.Register(context.Background(), alice())
	require.NoError(t, err)

	stored := customers.get("alice@example.com").Credential
	assert.True(t, strings.HasPrefix(stored, "$2a$04$"))

	auth := NewAuthService(StorefrontSources(newStubDirectory(), customers), enc, zerolog.Nop())
	_, err = auth.Authenticate(context.Background(), "alice@example.com", "secret1")
	assert.NoError(t, err)
	_, err = auth.Authenticate(context.Background(), "alice@example.com", stored)
	assert.NoError(t, err, "the stored hash itself satisfies the literal branch")
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"missing name", ports.RegisterInput{Email: "a@b.c", Password: "secret1"}, domain.ErrMissingFields},
		{"missing email", ports.RegisterInput{Name: "A", Password: "secret1"}, domain.ErrMissingFields},
		{"missing password", ports.RegisterInput{Name: "A", Email: "a@b.c"}, domain.ErrMissingFields},
		{"missing beats bad email", ports.RegisterInput{Email: "not-an-email", Password: "ab"}, domain.ErrMissingFields},
		{"no at sign", ports.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, domain.ErrInvalidEmailFormat},
		{"empty local part", ports.RegisterInput{Name: "A", Email: "@b.c", Password: "secret1"}, domain.ErrInvalidEmailFormat},
		{"empty domain", ports.RegisterInput{Name: "A", Email: "a@", Password: "secret1"}, domain.ErrInvalidEmailFormat},
		{"space in local part", ports.RegisterInput{Name: "A", Email: "a b@c.d", Password: "secret1"}, domain.ErrInvalidEmailFormat},
		{"bad email beats weak password", ports.RegisterInput{Name: "A", Email: "nope", Password: "ab"}, domain.ErrInvalidEmailFormat},
		{"weak password", ports.RegisterInput{Name: "Bob", Email: "b@x.com", Password: "ab"}, domain.ErrPasswordTooWeak},
		{"five chars", ports.RegisterInput{Name: "Bob", Email: "b@x.com", Password: "abcde"}, domain.ErrPasswordTooWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers := newStubDirectory()
			svc := newTestRegistrationService(customers, nil)

			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, customers.count())
			assert.Zero(t, customers.finds, "validation fails before any lookup")
		})
	}
}

func TestRegister_MinimalValidInput(t *testing.T) {
	svc := newTestRegistrationService(newStubDirectory(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "B", Email: "b@x", Password: "abcdef"})
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	customers := newStubDirectory()
	svc := newTestRegistrationService(customers, nil)

	_, err := svc.Register(context.Background(), alice())
	require.NoError(t, err)

	again := alice()
	again.Name = "Other Alice"
	again.Password = "different1"
	_, err = svc.Register(context.Background(), again)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyInUse)
	assert.Equal(t, 1, customers.count())
	assert.Equal(t, "Alice", customers.get("alice@example.com").Name)
}

func TestRegister_DuplicateOnlyChecksCustomers(t *testing.T) {
	customers := newStubDirectory()
	svc := newTestRegistrationService(customers, nil)

	// An administrator sharing the address lives in a different directory.
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Shadow", Email: "admin@pharmacy.com", Password: "secret1",
	})
	assert.NoError(t, err)
}

func TestRegister_SaveRaceReportsDuplicate(t *testing.T) {
	customers := newStubDirectory()
	customers.saveErr = domain.ErrEmailAlreadyInUse
	svc := newTestRegistrationService(customers, nil)

	_, err := svc.Register(context.Background(), alice())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyInUse)
}

func TestRegister_PersistenceFailures(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		customers := newStubDirectory()
		customers.findErr = errBackendDown
		svc := newTestRegistrationService(customers, nil)

		_, err := svc.Register(context.Background(), alice())
		assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	})

	t.Run("save", func(t *testing.T) {
		customers := newStubDirectory()
		customers.saveErr = errBackendDown
		svc := newTestRegistrationService(customers, nil)

		_, err := svc.Register(context.Background(), alice())
		assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
		assert.False(t, errors.Is(err, errBackendDown), "backend detail stays in the logs")
	})

	t.Run("encode", func(t *testing.T) {
		svc := NewRegistrationService(newStubDirectory(), stubEncoder{encodeErr: errBackendDown}, nil, zerolog.Nop())

		_, err := svc.Register(context.Background(), alice())
		assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	})
}

func TestRegister_PasswordTooLong(t *testing.T) {
	customers := newStubDirectory()
	svc := NewRegistrationService(customers, stubEncoder{encodeErr: domain.ErrPasswordTooLong}, nil, zerolog.Nop())

	_, err := svc.Register(context.Background(), alice())
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.Zero(t, customers.count())
}

func TestRegister_Reservation(t *testing.T) {
	t.Run("released after success", func(t *testing.T) {
		reserver := newStubReserver()
		svc := newTestRegistrationService(newStubDirectory(), reserver)

		_, err := svc.Register(context.Background(), alice())
		require.NoError(t, err)
		assert.Equal(t, []string{"claim-1"}, reserver.released)
		assert.Empty(t, reserver.held)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		reserver := newStubReserver()
		reserver.held["alice@example.com"] = "other-registration"
		customers := newStubDirectory()
		svc := newTestRegistrationService(customers, reserver)

		_, err := svc.Register(context.Background(), alice())
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyInUse)
		assert.Zero(t, customers.count())
		assert.Empty(t, reserver.released)
		assert.Equal(t, "other-registration", reserver.held["alice@example.com"])
	})

	t.Run("reserver unavailable", func(t *testing.T) {
		reserver := newStubReserver()
		reserver.err = errBackendDown
		customers := newStubDirectory()
		svc := newTestRegistrationService(customers, reserver)

		_, err := svc.Register(context.Background(), alice())
		require.NoError(t, err)
		assert.Equal(t, 1, customers.count())
		assert.Empty(t, reserver.released)
	})

	t.Run("released on failure", func(t *testing.T) {
		reserver := newStubReserver()
		customers := newStubDirectory()
		customers.saveErr = errBackendDown
		svc := newTestRegistrationService(customers, reserver)

		_, err := svc.Register(context.Background(), alice())
		assert.Error(t, err)
		assert.Empty(t, reserver.held)
	})
}

func TestRegisterResult(t *testing.T) {
	assert.Equal(t, "created", registrationResult(nil))
	assert.Equal(t, "email_in_use", registrationResult(domain.ErrEmailAlreadyInUse))
	assert.Equal(t, "persistence_failure", registrationResult(errBackendDown))
}
