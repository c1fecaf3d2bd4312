package ports

import (
	"context"

	"github.com/pharmacy/storefront/internal/core/domain"
)

// AuthService resolves an email/password pair to an identity.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
}

// RegisterInput carries a customer sign-up submission.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegistrationService admits new customer accounts.
type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
}

// EmailReserver guards the window between the uniqueness check and the insert.
type EmailReserver interface {
	// Reserve returns ok=false when another registration holds email.
	// On success the token identifies this claim to Release.
	Reserve(ctx context.Context, email string) (token string, ok bool, err error)
	// Release drops the claim only while token still owns it.
	Release(ctx context.Context, email, token string) error
}
