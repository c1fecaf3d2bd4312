package ports

import (
	"context"

	"github.com/pharmacy/storefront/internal/core/domain"
)

// Directory is a keyed store of principals.
type Directory interface {
	// FindByEmail returns the record whose email equals email exactly, or
	// (nil, nil) when there is none.
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	// Save inserts p and returns the stored record with its assigned ID.
	// A duplicate email yields domain.ErrEmailAlreadyInUse.
	Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}

// PrincipalSource pairs a directory with the role its records authenticate as.
type PrincipalSource struct {
	Role      domain.Role
	Directory Directory
}
