package leads

import (
	"context"
	"errors"
	"testing"

	"salescrm/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Lead{}, &models.Product{},
		&models.Project{}, &models.ProjectItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc := NewService(setupTestDB(t))
	lead := models.Lead{Name: "Acme", Contact: "a@b", UserID: 1}
	if err := svc.Create(context.Background(), &lead); err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.Status != models.LeadStatusNew {
		t.Fatalf("expected default status new, got %s", lead.Status)
	}
}

func TestListScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	for _, uid := range []uint{1, 1, 2} {
		if err := svc.Create(ctx, &models.Lead{Name: "L", Contact: "c", UserID: uid}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	mine, err := svc.List(ctx, 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 own leads, got %d", len(mine))
	}
	all, err := svc.List(ctx, 1, true)
	if err != nil {
		t.Fatalf("manager list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("manager expected 3 leads, got %d", len(all))
	}
}

func TestAvailableOnlyNegotiationWithoutProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	eligible := models.Lead{Name: "Eligible", Contact: "c", UserID: 1, Status: models.LeadStatusNegotiation}
	taken := models.Lead{Name: "Taken", Contact: "c", UserID: 1, Status: models.LeadStatusNegotiation}
	early := models.Lead{Name: "Early", Contact: "c", UserID: 1, Status: models.LeadStatusContacted}
	foreign := models.Lead{Name: "Foreign", Contact: "c", UserID: 2, Status: models.LeadStatusNegotiation}
	for _, l := range []*models.Lead{&eligible, &taken, &early, &foreign} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := db.Create(&models.Project{LeadID: taken.ID, UserID: 1, Status: models.ProjectStatusWaiting}).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}

	out, err := svc.Available(ctx, 1)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(out) != 1 || out[0].ID != eligible.ID {
		t.Fatalf("expected only the eligible lead, got %+v", out)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(setupTestDB(t))
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBulk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	a := models.Lead{Name: "A", Contact: "c", UserID: 1}
	b := models.Lead{Name: "B", Contact: "c", UserID: 1}
	for _, l := range []*models.Lead{&a, &b} {
		if err := svc.Create(ctx, l); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := svc.Delete(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&models.Lead{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected all leads gone, got %d", count)
	}
}

func TestDeleteConvertedLeadRemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedConverted := func(name string, userID uint) models.Lead {
		lead := models.Lead{Name: name, Contact: "c", UserID: userID, Status: models.LeadStatusDeal}
		if err := db.Create(&lead).Error; err != nil {
			t.Fatalf("seed lead: %v", err)
		}
		project := models.Project{LeadID: lead.ID, UserID: userID, Status: models.ProjectStatusApproved, TotalPrice: 200}
		if err := db.Create(&project).Error; err != nil {
			t.Fatalf("seed project: %v", err)
		}
		item := models.ProjectItem{ProjectID: project.ID, ProductID: 1, Quantity: 2, Price: 100, Subtotal: 200}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("seed item: %v", err)
		}
		customer := models.Customer{LeadID: lead.ID, Name: lead.Name, Contact: lead.Contact}
		if err := db.Create(&customer).Error; err != nil {
			t.Fatalf("seed customer: %v", err)
		}
		return lead
	}
	doomed := seedConverted("Doomed", 1)
	kept := seedConverted("Kept", 2)

	if err := svc.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var leadCount, projectCount, itemCount, customerCount int64
	db.Model(&models.Lead{}).Count(&leadCount)
	db.Model(&models.Project{}).Count(&projectCount)
	db.Model(&models.ProjectItem{}).Count(&itemCount)
	db.Model(&models.Customer{}).Count(&customerCount)
	if leadCount != 1 || projectCount != 1 || itemCount != 1 || customerCount != 1 {
		t.Fatalf("expected only the kept lead's rows to survive, got leads=%d projects=%d items=%d customers=%d",
			leadCount, projectCount, itemCount, customerCount)
	}
	var survivor models.Customer
	if err := db.Where("lead_id = ?", kept.ID).First(&survivor).Error; err != nil {
		t.Fatalf("kept lead's customer should survive: %v", err)
	}
	if err := db.Where("lead_id = ?", doomed.ID).First(&models.Customer{}).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted lead's customer should be gone, got %v", err)
	}
}
