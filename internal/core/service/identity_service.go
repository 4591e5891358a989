package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// IdentityService maps principals to profiles and decides where they land.
type IdentityService struct {
	repo   ports.ProfileRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewIdentityService(repo ports.ProfileRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, now: time.Now, logger: logger}
}

// ResolveLanding looks up the principal's profile, creating a tanod profile on
// the first visit, and returns the landing route for its role. Repeated calls
// never create a second profile.
func (s *IdentityService) ResolveLanding(ctx context.Context, principal *domain.Principal) (*domain.Landing, error) {
	if principal == nil || principal.ID == "" {
		return nil, domain.ErrAuthRequired
	}

	profile, err := s.repo.FindByID(ctx, principal.ID)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProfileNotFound):
		profile, created, err = s.repo.CreateIfAbsent(ctx, domain.NewProfile(*principal, s.now()))
		if err != nil {
			return nil, domain.Unavailable("create profile", err)
		}
	default:
		return nil, domain.Unavailable("lookup profile", err)
	}

	role := domain.ParseRole(string(profile.Role))
	if created {
		s.logger.Info().Str("uid", profile.ID).Str("role", string(role)).Msg("profile created")
	}

	return &domain.Landing{
		Role:    role,
		Route:   role.LandingRoute(),
		Profile: profile,
		Created: created,
	}, nil
}

// ListTanods returns every tanod profile ordered by display name.
func (s *IdentityService) ListTanods(ctx context.Context) ([]*domain.Profile, error) {
	profiles, err := s.repo.ListByRole(ctx, domain.RoleTanod)
	if err != nil {
		return nil, domain.Unavailable("list tanods", err)
	}
	return profiles, nil
}
