package customers

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
	if err := db.AutoMigrate(&models.User{}, &models.Lead{}, &models.Project{},
		&models.ProjectItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedConverted(t *testing.T, db *gorm.DB, userID uint) *models.Customer {
	t.Helper()
	lead := models.Lead{Name: "Acme", UserID: userID, Status: models.LeadStatusDeal}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	customer := models.Customer{LeadID: lead.ID, Name: lead.Name, Status: models.CustomerStatusActive}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &customer
}

func TestListScopedThroughLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	seedConverted(t, db, 1)
	seedConverted(t, db, 2)

	mine, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("sales expected 1 customer, got %d", len(mine))
	}
	all, err := svc.List(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("manager list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("manager expected 2 customers, got %d", len(all))
	}
}

func TestGetPreloadsLead(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	seeded := seedConverted(t, db, 1)

	customer, err := svc.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if customer.Lead.ID == 0 || customer.Lead.Name != "Acme" {
		t.Fatalf("lead must be preloaded: %+v", customer.Lead)
	}

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
