package ports

import (
	"context"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

// TokenVerifier turns a bearer token into a verified Principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

// IdentityService resolves principals to profiles and landing routes.
type IdentityService interface {
	ResolveLanding(ctx context.Context, principal *domain.Principal) (*domain.Landing, error)
	ListTanods(ctx context.Context) ([]*domain.Profile, error)
}
