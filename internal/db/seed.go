package db

import (
	"errors"

	"salescrm/internal/models"

	"gorm.io/gorm"
)

// rolePermissions maps each role to its resource:action grants.
// Sales own the lead funnel; managers administer the catalog and user
// accounts and hold the project override right.
var rolePermissions = map[string][][2]string{
	models.RoleSales: {
		{"lead", "*"},
		{"project", "create"}, {"project", "view"}, {"project", "list"},
		{"project", "update"}, {"project", "delete"},
		{"customer", "view"}, {"customer", "list"},
		{"report", "view"},
	},
	models.RoleManager: {
		{"user", "*"},
		{"product", "*"},
		{"lead", "view"}, {"lead", "list"}, {"lead", "update"},
		{"project", "view"}, {"project", "list"}, {"project", "update"},
		{"project", "override"},
		{"customer", "view"}, {"customer", "list"},
		{"report", "view"}, {"report", "export"},
	},
}

// SeedRoles creates the manager and sales roles with their permission sets.
// Idempotent: existing rows are reused, missing grants are added.
func SeedRoles(db *gorm.DB) error {
	for roleName, perms := range rolePermissions {
		var role models.Role
		err := db.Where("name = ?", roleName).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{Name: roleName}
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, rp := range perms {
			var perm models.Permission
			err := db.Where("resource_type = ? AND action = ?", rp[0], rp[1]).First(&perm).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				perm = models.Permission{ResourceType: rp[0], Action: rp[1]}
				if err := db.Create(&perm).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			var count int64
			if err := db.Table("role_permissions").
				Where("role_id = ? AND permission_id = ?", role.ID, perm.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := db.Model(&role).Association("Permissions").Append(&perm); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
