package db

import (
	"testing"

	"salescrm/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	dbi, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func TestSeedRolesCreatesGrants(t *testing.T) {
	dbi := setupTestDB(t)
	if err := SeedRoles(dbi); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var roles int64
	dbi.Model(&models.Role{}).Count(&roles)
	if roles != 2 {
		t.Fatalf("expected 2 roles, got %d", roles)
	}

	var manager models.Role
	if err := dbi.Preload("Permissions").Where("name = ?", models.RoleManager).First(&manager).Error; err != nil {
		t.Fatalf("load manager: %v", err)
	}
	hasOverride := false
	for _, p := range manager.Permissions {
		if p.ResourceType == "project" && p.Action == "override" {
			hasOverride = true
		}
	}
	if !hasOverride {
		t.Fatal("manager must hold project:override")
	}

	var sales models.Role
	if err := dbi.Preload("Permissions").Where("name = ?", models.RoleSales).First(&sales).Error; err != nil {
		t.Fatalf("load sales: %v", err)
	}
	for _, p := range sales.Permissions {
		if p.ResourceType == "product" {
			t.Fatal("sales must hold no catalog grants")
		}
		if p.ResourceType == "project" && p.Action == "override" {
			t.Fatal("sales must not hold the override grant")
		}
	}
}

func TestSeedRolesIdempotent(t *testing.T) {
	dbi := setupTestDB(t)
	if err := SeedRoles(dbi); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	var permsBefore, linksBefore int64
	dbi.Model(&models.Permission{}).Count(&permsBefore)
	dbi.Table("role_permissions").Count(&linksBefore)

	if err := SeedRoles(dbi); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var permsAfter, linksAfter int64
	dbi.Model(&models.Permission{}).Count(&permsAfter)
	dbi.Table("role_permissions").Count(&linksAfter)
	if permsBefore != permsAfter || linksBefore != linksAfter {
		t.Fatalf("reseed changed counts: perms %d->%d links %d->%d", permsBefore, permsAfter, linksBefore, linksAfter)
	}
}
