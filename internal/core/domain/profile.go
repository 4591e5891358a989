package domain

import "time"

// Role is the closed set of access roles. Unknown stored values decode as
// RolePending.
type Role string

const (
	RoleTanod   Role = "tanod"
	RoleAdmin   Role = "admin"
	RolePending Role = "pending"
)

// ParseRole maps a stored role string onto the closed set.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleTanod:
		return RoleTanod
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePending
	}
}

const (
	LandingTanod   = "/tanod-dashboard"
	LandingAdmin   = "/admin-dashboard"
	LandingPending = "/pending"
)

// LandingRoute returns the page a profile with this role is sent to after login.
func (r Role) LandingRoute() string {
	switch r {
	case RoleAdmin:
		return LandingAdmin
	case RoleTanod:
		return LandingTanod
	default:
		return LandingPending
	}
}

// NoName is shown for profiles that never had a display name.
const NoName = "No name"

// Profile is this system's record about a Principal.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProfile builds the default profile created on a principal's first visit.
func NewProfile(p Principal, now time.Time) *Profile {
	return &Profile{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Role:        RoleTanod,
		CreatedAt:   now.UTC(),
	}
}

// Label is the display name, or NoName when empty.
func (p *Profile) Label() string {
	if p.DisplayName == "" {
		return NoName
	}
	return p.DisplayName
}

// Landing is the outcome of resolving a principal after sign-in.
type Landing struct {
	Role    Role
	Route   string
	Profile *Profile
	Created bool
}
