package gate

import "context"

// Profile represents a role with a set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
}

// ProfileResolver resolves a user id to their profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID uint) (Profile, error)
}

// StaticProfile is a simple in-memory profile implementation, used in tests
// and for static configuration.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{name: name, permissions: make(map[Permission]bool)}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// HasPermission checks if the profile has the requested permission.
// Supports wildcard matching.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver is a simple in-memory resolver for tests.
type StaticResolver struct {
	profiles map[uint]Profile
}

// NewStaticResolver creates a resolver with predefined user-profile mappings.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{profiles: make(map[uint]Profile)}
}

// Set assigns a profile to a user.
func (r *StaticResolver) Set(userID uint, profile Profile) {
	r.profiles[userID] = profile
}

// Resolve returns the profile for the given user, or nil if none assigned.
func (r *StaticResolver) Resolve(_ context.Context, userID uint) (Profile, error) {
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	return nil, nil
}
