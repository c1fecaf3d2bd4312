package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pharmacy/storefront/internal/pkg/metrics"
	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
)

const (
	minPasswordLength = 6

	accountEmailTag = "account_email"
)

// accountEmailRe accepts local@domain: at least one character that is neither
// '@' nor whitespace, an '@', then at least one more character.
var accountEmailRe = regexp.MustCompile(`^[^@\s]+@.+$`)

var passwordRule = "min=" + strconv.Itoa(minPasswordLength)

// RegistrationService validates and persists new customer accounts.
type RegistrationService struct {
	customers ports.Directory
	encoder   ports.PasswordEncoder
	reserver  ports.EmailReserver
	validate  *validator.Validate
	log       zerolog.Logger
	now       func() time.Time
}

// NewRegistrationService wires the pipeline. A nil reserver disables email
// reservations.
func NewRegistrationService(
	customers ports.Directory,
	encoder ports.PasswordEncoder,
	reserver ports.EmailReserver,
	log zerolog.Logger,
) *RegistrationService {
	if reserver == nil {
		reserver = noopReserver{}
	}
	return &RegistrationService{
		customers: customers,
		encoder:   encoder,
		reserver:  reserver,
		validate:  newAccountValidator(),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func newAccountValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(accountEmailTag, func(fl validator.FieldLevel) bool {
		return accountEmailRe.MatchString(fl.Field().String())
	})
	return v
}

// Register runs the checks in order, stopping at the first failure:
// presence, email format, password length, uniqueness. It then encodes the
// password and saves the customer.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	account, err := s.register(ctx, in)
	metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
	return account, err
}

func (s *RegistrationService) register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	for _, field := range []string{in.Name, in.Email, in.Password} {
		if s.validate.Var(field, "required") != nil {
			return nil, domain.ErrMissingFields
		}
	}
	if s.validate.Var(in.Email, accountEmailTag) != nil {
		return nil, domain.ErrInvalidEmailFormat
	}
	if s.validate.Var(in.Password, passwordRule) != nil {
		return nil, domain.ErrPasswordTooWeak
	}

	existing, err := s.customers.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("customer lookup failed")
		return nil, domain.ErrPersistenceFailure
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyInUse
	}

	token, reserved, err := s.reserver.Reserve(ctx, in.Email)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("email reservation failed, registering anyway")
	case !reserved:
		return nil, domain.ErrEmailAlreadyInUse
	default:
		defer func() {
			if err := s.reserver.Release(context.WithoutCancel(ctx), in.Email, token); err != nil {
				s.log.Warn().Err(err).Msg("failed to release email reservation")
			}
		}()
	}

	hash, err := s.encoder.Encode(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return nil, domain.ErrPasswordTooLong
		}
		s.log.Error().Err(err).Msg("password encoding failed")
		return nil, domain.ErrPersistenceFailure
	}

	saved, err := s.customers.Save(ctx, &domain.Principal{
		Name:       in.Name,
		Email:      in.Email,
		Credential: hash,
		CreatedAt:  s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyInUse) {
			return nil, domain.ErrEmailAlreadyInUse
		}
		s.log.Error().Err(err).Msg("error creating customer")
		return nil, domain.ErrPersistenceFailure
	}

	s.log.Info().Str("principal_id", saved.ID).Msg("new customer registered")
	return domain.AccountOf(saved), nil
}

func registrationResult(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, domain.ErrInvalidEmailFormat):
		return "invalid_email_format"
	case errors.Is(err, domain.ErrPasswordTooWeak):
		return "password_too_weak"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "password_too_long"
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return "email_in_use"
	default:
		return "persistence_failure"
	}
}

type noopReserver struct{}

func (noopReserver) Reserve(context.Context, string) (string, bool, error) { return "", true, nil }
func (noopReserver) Release(context.Context, string, string) error         { return nil }
