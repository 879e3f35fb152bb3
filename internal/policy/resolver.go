package policy

import (
	"context"
	"errors"

	"salescrm/internal/gate"
	"salescrm/internal/models"

	"gorm.io/gorm"
)

// DBProfileResolver fetches a user's role and permissions from the database.
// It implements gate.ProfileResolver.
type DBProfileResolver struct {
	DB *gorm.DB
}

// NewDBProfileResolver creates a new database-backed profile resolver.
func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve looks up the user's role, preloading its permissions.
// Returns nil (no profile) for unknown or soft-deleted users.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Role.Permissions").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &roleProfile{role: user.Role}, nil
}

// roleProfile adapts models.Role to the gate.Profile interface.
type roleProfile struct {
	role models.Role
}

func (a *roleProfile) Name() string { return a.role.Name }

// HasPermission checks the role's permission rows, honoring wildcards.
func (a *roleProfile) HasPermission(perm gate.Permission) bool {
	for _, p := range a.role.Permissions {
		if gate.NewPermission(p.ResourceType, gate.Action(p.Action)).Matches(perm) {
			return true
		}
	}
	return false
}
