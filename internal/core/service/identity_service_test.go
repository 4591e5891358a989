package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tanodwatch/tanod-system/internal/core/domain"
)

func newIdentitySvc(repo *stubProfileRepo) *IdentityService {
	svc := NewIdentityService(repo, zerolog.Nop())
	svc.now = fixedClock(time.Date(2025, 8, 10, 8, 0, 0, 0, time.UTC))
	return svc
}

func TestIdentityService_FirstVisitCreatesTanodProfile(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newIdentitySvc(repo)
	principal := &domain.Principal{ID: "fb-123", DisplayName: "Juan", Email: "juan@example.com"}

	landing, err := svc.ResolveLanding(context.Background(), principal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !landing.Created {
		t.Error("expected profile to be created")
	}
	if landing.Role != domain.RoleTanod || landing.Route != domain.LandingTanod {
		t.Errorf("expected tanod landing, got %s %s", landing.Role, landing.Route)
	}
	stored := repo.byID["fb-123"]
	if stored == nil {
		t.Fatal("profile not stored")
	}
	if stored.DisplayName != "Juan" || stored.Email != "juan@example.com" {
		t.Errorf("principal fields not copied: %+v", stored)
	}
	if !stored.CreatedAt.Equal(time.Date(2025, 8, 10, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created_at: %v", stored.CreatedAt)
	}
}

func TestIdentityService_SecondVisitDoesNotDuplicate(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newIdentitySvc(repo)
	principal := &domain.Principal{ID: "fb-123", DisplayName: "Juan"}

	first, err := svc.ResolveLanding(context.Background(), principal)
	if err != nil {
		t.Fatalf("first visit: %v", err)
	}
	second, err := svc.ResolveLanding(context.Background(), principal)
	if err != nil {
		t.Fatalf("second visit: %v", err)
	}

	if repo.createCalls != 1 {
		t.Errorf("expected a single create, got %d", repo.createCalls)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected one profile, got %d", len(repo.byID))
	}
	if second.Created {
		t.Error("second visit must not report creation")
	}
	if first.Route != second.Route {
		t.Errorf("route changed between visits: %s vs %s", first.Route, second.Route)
	}
}

func TestIdentityService_RoutesByStoredRole(t *testing.T) {
	tests := []struct {
		role      domain.Role
		wantRole  domain.Role
		wantRoute string
	}{
		{role: domain.RoleAdmin, wantRole: domain.RoleAdmin, wantRoute: domain.LandingAdmin},
		{role: domain.RoleTanod, wantRole: domain.RoleTanod, wantRoute: domain.LandingTanod},
		{role: domain.RolePending, wantRole: domain.RolePending, wantRoute: domain.LandingPending},
		{role: domain.Role("barangay_captain"), wantRole: domain.RolePending, wantRoute: domain.LandingPending},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			repo := newStubProfileRepo()
			repo.byID["u1"] = &domain.Profile{ID: "u1", Role: tt.role}

			landing, err := newIdentitySvc(repo).ResolveLanding(context.Background(), &domain.Principal{ID: "u1"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if landing.Role != tt.wantRole || landing.Route != tt.wantRoute {
				t.Errorf("got %s %s, want %s %s", landing.Role, landing.Route, tt.wantRole, tt.wantRoute)
			}
			if repo.createCalls != 0 {
				t.Error("existing profile must not be recreated")
			}
		})
	}
}

func TestIdentityService_NoPrincipal(t *testing.T) {
	_, err := newIdentitySvc(newStubProfileRepo()).ResolveLanding(context.Background(), nil)
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired, got: %v", err)
	}
}

func TestIdentityService_LookupFailureSurfaces(t *testing.T) {
	repo := newStubProfileRepo()
	repo.findErr = errors.New("connection refused")

	_, err := newIdentitySvc(repo).ResolveLanding(context.Background(), &domain.Principal{ID: "u1"})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got: %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("must not create a profile when lookup fails")
	}
}

func TestIdentityService_ListTanods(t *testing.T) {
	repo := newStubProfileRepo()
	repo.byID["a"] = &domain.Profile{ID: "a", DisplayName: "Maria", Role: domain.RoleTanod}
	repo.byID["b"] = &domain.Profile{ID: "b", DisplayName: "Andres", Role: domain.RoleTanod}
	repo.byID["c"] = &domain.Profile{ID: "c", DisplayName: "Admin", Role: domain.RoleAdmin}

	tanods, err := newIdentitySvc(repo).ListTanods(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tanods) != 2 || tanods[0].DisplayName != "Andres" {
		t.Errorf("unexpected tanods: %+v", tanods)
	}
}
