package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pharmacy/storefront/internal/pkg/metrics"
	"github.com/pharmacy/storefront/internal/core/domain"
	"github.com/pharmacy/storefront/internal/core/ports"
)

// AuthService resolves login attempts against an ordered list of directories.
type AuthService struct {
	sources []ports.PrincipalSource
	encoder ports.PasswordEncoder
	log     zerolog.Logger
}

// NewAuthService returns a resolver that consults sources in the given order.
// The first source whose record verifies wins.
func NewAuthService(sources []ports.PrincipalSource, encoder ports.PasswordEncoder, log zerolog.Logger) *AuthService {
	return &AuthService{sources: sources, encoder: encoder, log: log}
}

// StorefrontSources is the storefront precedence: administrators, then customers.
func StorefrontSources(admins, customers ports.Directory) []ports.PrincipalSource {
	return []ports.PrincipalSource{
		{Role: domain.RoleAdmin, Directory: admins},
		{Role: domain.RoleCustomer, Directory: customers},
	}
}

// Authenticate returns the identity for email/password, or one of
// domain.ErrMissingCredentials, domain.ErrInvalidCredentials and
// domain.ErrPersistenceFailure.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("", metrics.OutcomeMissing).Inc()
		return nil, domain.ErrMissingCredentials
	}

	for _, src := range s.sources {
		p, err := src.Directory.FindByEmail(ctx, email)
		if err != nil {
			s.log.Error().Err(err).Str("role", string(src.Role)).Msg("directory lookup failed")
			metrics.AuthAttemptsTotal.WithLabelValues(string(src.Role), metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("authenticate: %w", domain.ErrPersistenceFailure)
		}
		if p == nil {
			continue
		}

		ok, legacy := s.verify(password, p.Credential)
		if !ok {
			// A failed check here only moves on to the next directory.
			continue
		}

		outdated := !legacy && s.outdated(p.Credential)
		metrics.AuthAttemptsTotal.WithLabelValues(string(src.Role), metrics.OutcomeAuthenticated).Inc()
		if legacy {
			metrics.AuthLegacyMatchesTotal.WithLabelValues(string(src.Role)).Inc()
		}
		if outdated {
			metrics.AuthOutdatedHashesTotal.WithLabelValues(string(src.Role)).Inc()
		}
		s.log.Debug().
			Str("role", string(src.Role)).
			Str("principal_id", p.ID).
			Bool("legacy", legacy).
			Bool("outdated_hash", outdated).
			Msg("login accepted")

		return &domain.Identity{
			Role:        src.Role,
			PrincipalID: p.ID,
			Name:        p.Name,
			Email:       p.Email,
			Legacy:      legacy,
			Outdated:    outdated,
		}, nil
	}

	metrics.AuthAttemptsTotal.WithLabelValues("", metrics.OutcomeRejected).Inc()
	s.log.Debug().Msg("login rejected")
	return nil, domain.ErrInvalidCredentials
}

// verify applies the dual policy: literal equality with a plaintext record, or
// an encoder match against a hashed one. legacy reports which branch held.
func (s *AuthService) verify(password, stored string) (ok, legacy bool) {
	if stored == "" {
		return false, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, true
	}
	return s.encoder.Matches(password, stored), false
}

// outdated reports whether a hashed credential was produced by an algorithm
// other than the encoder's current one. Encoders that cannot tell never flag.
func (s *AuthService) outdated(stored string) bool {
	uc, ok := s.encoder.(ports.UpgradeChecker)
	return ok && uc.NeedsUpgrade(stored)
}
