// Package gate provides a central authorization checkpoint combining
// role-profile permissions with per-resource ownership policies.
//
// Authorization flow:
//  1. Check the user is valid (non-zero id) and has a profile
//  2. Check the profile grants the required permission (resource:action)
//  3. If a resource policy is registered and a resource is provided,
//     check the policy (typically ownership)
package gate

import "context"

// Gate is the central authorization checkpoint.
type Gate struct {
	resolver ProfileResolver
	policies map[string]Policy
}

// New creates a gate with the given profile resolver.
func New(resolver ProfileResolver) *Gate {
	return &Gate{resolver: resolver, policies: make(map[string]Policy)}
}

// Register adds a resource-specific policy for a resource type (e.g. "lead").
// Overwrites any existing policy for that type.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize checks authorization and returns ErrForbidden if denied.
func (g *Gate) Authorize(ctx context.Context, userID uint, action Action, resourceType string, resource any) error {
	if userID == 0 {
		return ErrForbidden
	}
	profile, err := g.resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return ErrForbidden
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrForbidden
	}
	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok {
			if !policy.Can(ctx, userID, action, resource) {
				return ErrForbidden
			}
		}
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, userID uint, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, userID, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, without the resource policy.
// Useful before a specific record has been loaded.
func (g *Gate) CanProfile(ctx context.Context, userID uint, action Action, resourceType string) bool {
	if userID == 0 {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}
