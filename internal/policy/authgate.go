package policy

import (
	"context"
	"net/http"
	"time"

	"salescrm/internal/auth"
	"salescrm/internal/gate"
	"salescrm/internal/models"

	"gorm.io/gorm"
)

// Resource type names registered on the gate.
const (
	ResourceLead     = "lead"
	ResourceProject  = "project"
	ResourceProduct  = "product"
	ResourceCustomer = "customer"
	ResourceUser     = "user"
	ResourceReport   = "report"
)

// AuthGate is the application's central authorization point: role permissions
// from the database (cached) plus ownership policies on leads and projects.
type AuthGate struct {
	Gate          *gate.Gate
	CacheResolver *gate.CachedResolver
}

// NewAuthGate creates a fully configured authorization gate.
//   - db: GORM connection for role lookups
//   - cacheTTL: how long to cache user roles (e.g. 5*time.Minute)
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver(NewDBProfileResolver(db), cacheTTL)
	g := gate.New(cached)

	ag := &AuthGate{Gate: g, CacheResolver: cached}

	// Sales may only touch records they own; managers see everything.
	owned := NewManagerBypassPolicy(NewOwnershipPolicy(), ag.IsManager)
	g.Register(ResourceLead, owned)
	g.Register(ResourceProject, owned)

	return ag
}

// Authorize checks if the context's user can perform an action on a resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrForbidden
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is a convenience method returning bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// IsManager reports whether the user's role is manager.
func (ag *AuthGate) IsManager(ctx context.Context, userID uint) bool {
	profile, err := ag.CacheResolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return false
	}
	return profile.Name() == models.RoleManager
}

// InvalidateUser clears the cache for a user. Call when their role changes.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequirePermission returns middleware that blocks requests whose user lacks
// the role permission, before any handler or engine logic runs.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok || !ag.Gate.CanProfile(r.Context(), userID, action, resourceType) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
