package ports

import (
	"context"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	// FindByID returns domain.ErrProfileNotFound when no profile exists.
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// CreateIfAbsent inserts p unless a profile with the same id exists, and
	// returns the stored profile. created is false when it already existed.
	CreateIfAbsent(ctx context.Context, p *domain.Profile) (stored *domain.Profile, created bool, err error)
	// ListByRole returns profiles with the given role ordered by display name.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.Profile, error)
	// FindByIDs returns the profiles that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Profile, error)
}
