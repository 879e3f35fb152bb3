package policy

import (
	"context"
	"testing"

	"salescrm/internal/gate"
	"salescrm/internal/models"
)

func TestOwnershipPolicy(t *testing.T) {
	p := NewOwnershipPolicy()
	lead := &models.Lead{UserID: 7}

	if !p.Can(context.Background(), 7, gate.ActionView, lead) {
		t.Error("owner must be allowed")
	}
	if p.Can(context.Background(), 8, gate.ActionView, lead) {
		t.Error("non-owner must be denied")
	}
	// Nil resource (list/create): role permission already gated access.
	if !p.Can(context.Background(), 8, gate.ActionList, nil) {
		t.Error("nil resource must pass through")
	}
	// Non-ownable resources are denied outright.
	if p.Can(context.Background(), 8, gate.ActionView, struct{}{}) {
		t.Error("non-ownable resource must be denied")
	}
}

func TestManagerBypassPolicy(t *testing.T) {
	isManager := func(_ context.Context, userID uint) bool { return userID == 1 }
	p := NewManagerBypassPolicy(NewOwnershipPolicy(), isManager)
	project := &models.Project{UserID: 7}

	if !p.Can(context.Background(), 1, gate.ActionUpdate, project) {
		t.Error("manager must bypass ownership")
	}
	if !p.Can(context.Background(), 7, gate.ActionUpdate, project) {
		t.Error("owner must be allowed")
	}
	if p.Can(context.Background(), 8, gate.ActionUpdate, project) {
		t.Error("non-owner sales must be denied")
	}
}
