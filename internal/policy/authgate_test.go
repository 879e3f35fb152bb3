package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salescrm/internal/auth"
	"salescrm/internal/db"
	"salescrm/internal/gate"
	"salescrm/internal/models"
	"salescrm/internal/policy"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGateDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	dbi, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbi.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}, &models.Lead{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedRoles(dbi); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return dbi
}

func seedUser(t *testing.T, dbi *gorm.DB, email, roleName string) *models.User {
	t.Helper()
	var role models.Role
	if err := dbi.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %s: %v", roleName, err)
	}
	user := models.User{Name: email, Email: email, Password: "x", RoleID: role.ID}
	if err := dbi.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func TestAuthGateIsManager(t *testing.T) {
	dbi := setupGateDB(t)
	ag := policy.NewAuthGate(dbi, time.Minute)
	manager := seedUser(t, dbi, "m@crm", models.RoleManager)
	sales := seedUser(t, dbi, "s@crm", models.RoleSales)

	if !ag.IsManager(context.Background(), manager.ID) {
		t.Error("expected manager role to be detected")
	}
	if ag.IsManager(context.Background(), sales.ID) {
		t.Error("sales must not be manager")
	}
	if ag.IsManager(context.Background(), 999) {
		t.Error("unknown user must not be manager")
	}
}

func TestAuthGateOwnershipOnLeads(t *testing.T) {
	dbi := setupGateDB(t)
	ag := policy.NewAuthGate(dbi, time.Minute)
	manager := seedUser(t, dbi, "m@crm", models.RoleManager)
	owner := seedUser(t, dbi, "s1@crm", models.RoleSales)
	other := seedUser(t, dbi, "s2@crm", models.RoleSales)

	lead := &models.Lead{Name: "Acme", UserID: owner.ID, Status: models.LeadStatusNew}
	if err := dbi.Create(lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	ownerCtx := auth.WithUserID(context.Background(), owner.ID)
	if err := ag.Authorize(ownerCtx, gate.ActionView, policy.ResourceLead, lead); err != nil {
		t.Errorf("owner view: %v", err)
	}
	otherCtx := auth.WithUserID(context.Background(), other.ID)
	if err := ag.Authorize(otherCtx, gate.ActionView, policy.ResourceLead, lead); err == nil {
		t.Error("other sales must be denied")
	}
	managerCtx := auth.WithUserID(context.Background(), manager.ID)
	if err := ag.Authorize(managerCtx, gate.ActionView, policy.ResourceLead, lead); err != nil {
		t.Errorf("manager bypass: %v", err)
	}
	// Managers hold no lead:create grant; their reach is view/list/update.
	if ag.Can(managerCtx, gate.ActionCreate, policy.ResourceLead, nil) {
		t.Error("manager must not create leads")
	}
}

func TestAuthGateRolePermissions(t *testing.T) {
	dbi := setupGateDB(t)
	ag := policy.NewAuthGate(dbi, time.Minute)
	manager := seedUser(t, dbi, "m@crm", models.RoleManager)
	sales := seedUser(t, dbi, "s@crm", models.RoleSales)

	salesCtx := auth.WithUserID(context.Background(), sales.ID)
	managerCtx := auth.WithUserID(context.Background(), manager.ID)

	if ag.Can(salesCtx, gate.ActionCreate, policy.ResourceProduct, nil) {
		t.Error("sales must not manage the catalog")
	}
	if !ag.Can(managerCtx, gate.ActionCreate, policy.ResourceProduct, nil) {
		t.Error("manager must manage the catalog")
	}
	if ag.Can(salesCtx, gate.ActionOverride, policy.ResourceProject, nil) {
		t.Error("sales must not hold the override right")
	}
	if !ag.Can(managerCtx, gate.ActionOverride, policy.ResourceProject, nil) {
		t.Error("manager must hold the override right")
	}
	if ag.Can(salesCtx, gate.ActionExport, policy.ResourceReport, nil) {
		t.Error("sales must not export reports")
	}
	if !ag.Can(managerCtx, gate.ActionExport, policy.ResourceReport, nil) {
		t.Error("manager must export reports")
	}
}

func TestRequirePermissionMiddleware(t *testing.T) {
	dbi := setupGateDB(t)
	ag := policy.NewAuthGate(dbi, time.Minute)
	sales := seedUser(t, dbi, "s@crm", models.RoleSales)

	called := false
	h := ag.RequirePermission(policy.ResourceLead, gate.ActionCreate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	// Sales may create leads.
	req := httptest.NewRequest(http.MethodPost, "/leads", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), sales.ID))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("expected handler to run for permitted user")
	}

	// But not products.
	called = false
	hDenied := ag.RequirePermission(policy.ResourceProduct, gate.ActionCreate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	rr := httptest.NewRecorder()
	hDenied.ServeHTTP(rr, req)
	if called {
		t.Error("handler must not run for denied user")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestScopeToOwner(t *testing.T) {
	dbi := setupGateDB(t)
	owner := seedUser(t, dbi, "s1@crm", models.RoleSales)
	other := seedUser(t, dbi, "s2@crm", models.RoleSales)
	for _, uid := range []uint{owner.ID, owner.ID, other.ID} {
		if err := dbi.Create(&models.Lead{Name: "L", UserID: uid, Status: models.LeadStatusNew}).Error; err != nil {
			t.Fatalf("seed lead: %v", err)
		}
	}

	var mine []models.Lead
	if err := dbi.Scopes(policy.ScopeToOwner(owner.ID, false)).Find(&mine).Error; err != nil {
		t.Fatalf("scoped query: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 owned leads, got %d", len(mine))
	}

	var all []models.Lead
	if err := dbi.Scopes(policy.ScopeToOwner(owner.ID, true)).Find(&all).Error; err != nil {
		t.Fatalf("manager query: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("manager expected all 3 leads, got %d", len(all))
	}
}
