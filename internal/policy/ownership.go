package policy

import (
	"context"

	"salescrm/internal/gate"
)

// Ownable is implemented by records that belong to a salesperson.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows access only to the record's owner.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks if the user owns the resource. For list/create (resource nil)
// it returns true since the role permission already gates access. Resources
// that do not implement Ownable are denied outright.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// ManagerBypassPolicy wraps another policy and always allows managers through.
type ManagerBypassPolicy struct {
	inner         gate.Policy
	isManagerFunc func(ctx context.Context, userID uint) bool
}

// NewManagerBypassPolicy creates a policy that bypasses ownership for managers.
func NewManagerBypassPolicy(inner gate.Policy, isManagerFunc func(ctx context.Context, userID uint) bool) *ManagerBypassPolicy {
	return &ManagerBypassPolicy{inner: inner, isManagerFunc: isManagerFunc}
}

// Can checks if the user is a manager (bypass) or falls back to the inner policy.
func (p *ManagerBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	if p.isManagerFunc(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
