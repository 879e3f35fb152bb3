package gate

import "context"

// Policy defines resource-level authorization rules for a resource type,
// checked after the user's role permission. Implementations typically check
// ownership of the concrete record.
type Policy interface {
	// Can returns true if the user may perform action on resource.
	// For list/create, resource may be nil (role-permission-only check).
	Can(ctx context.Context, userID uint, action Action, resource any) bool
}
