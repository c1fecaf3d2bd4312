package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
)

// SeedAdmin describes the default administrator.
type SeedAdmin struct {
	Name     string
	Email    string
	Password string
	// Hash stores the password through the encoder instead of as plaintext.
	Hash bool
}

// SeedService makes sure the default administrator exists.
type SeedService struct {
	admins  ports.Directory
	encoder ports.PasswordEncoder
	admin   SeedAdmin
	log     zerolog.Logger
}

func NewSeedService(admins ports.Directory, encoder ports.PasswordEncoder, admin SeedAdmin, log zerolog.Logger) *SeedService {
	return &SeedService{admins: admins, encoder: encoder, admin: admin, log: log}
}

// EnsureSeeded creates the default administrator when absent. It reports
// whether a record was created and is safe to run on every start.
func (s *SeedService) EnsureSeeded(ctx context.Context) (bool, error) {
	existing, err := s.admins.FindByEmail(ctx, s.admin.Email)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if existing != nil {
		s.log.Debug().Str("email", s.admin.Email).Msg("default admin already present")
		return false, nil
	}

	credential := s.admin.Password
	if s.admin.Hash {
		credential, err = s.encoder.Encode(s.admin.Password)
		if err != nil {
			return false, fmt.Errorf("seed admin: encode: %w", err)
		}
	}

	_, err = s.admins.Save(ctx, &domain.Principal{
		Name:       s.admin.Name,
		Email:      s.admin.Email,
		Credential: credential,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyInUse) {
			// Another instance seeded it first.
			return false, nil
		}
		return false, fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("email", s.admin.Email).Bool("hashed", s.admin.Hash).Msg("default admin created")
	return true, nil
}
