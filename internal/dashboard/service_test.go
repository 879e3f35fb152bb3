package dashboard

import (
	"context"
	"testing"
	"time"

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
	if err := db.AutoMigrate(&models.Lead{}, &models.Project{}, &models.ProjectItem{}, &models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDelta(t *testing.T) {
	cases := []struct {
		current, lastMonth int64
		want               float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 5, 100},
		{5, 10, -50},
		{10, 10, 0},
	}
	for _, c := range cases {
		if got := delta(c.current, c.lastMonth); got != c.want {
			t.Errorf("delta(%d, %d) = %v, want %v", c.current, c.lastMonth, got, c.want)
		}
	}
}

func TestLastMonthRange(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	start, end := lastMonthRange(now)
	if start.Month() != time.February || start.Day() != 1 {
		t.Errorf("unexpected start: %v", start)
	}
	if end.Month() != time.February || end.Day() != 28 {
		t.Errorf("unexpected end: %v", end)
	}
	if !end.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end must precede the current month: %v", end)
	}
}

func TestStatsScopedBySales(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	svc.Now = func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }

	leads := []models.Lead{
		{Name: "A", UserID: 1, Status: models.LeadStatusNegotiation},
		{Name: "B", UserID: 1, Status: models.LeadStatusNew},
		{Name: "C", UserID: 2, Status: models.LeadStatusNegotiation},
	}
	for i := range leads {
		if err := db.Create(&leads[i]).Error; err != nil {
			t.Fatalf("seed lead: %v", err)
		}
	}
	projects := []models.Project{
		{LeadID: leads[0].ID, UserID: 1, Status: models.ProjectStatusApproved, TotalPrice: 100},
		{LeadID: leads[2].ID, UserID: 2, Status: models.ProjectStatusWaiting, TotalPrice: 50},
	}
	for i := range projects {
		if err := db.Create(&projects[i]).Error; err != nil {
			t.Fatalf("seed project: %v", err)
		}
	}
	if err := db.Create(&models.Customer{LeadID: leads[0].ID, Name: "A", Status: models.CustomerStatusActive}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	stats, err := svc.Stats(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalLeads != 2 || stats.NegotiationLeads != 1 {
		t.Errorf("sales lead counts wrong: %+v", stats)
	}
	if stats.TotalProjects != 1 || stats.ApprovedProjects != 1 {
		t.Errorf("sales project counts wrong: %+v", stats)
	}
	if stats.TotalCustomers != 1 {
		t.Errorf("sales customer count wrong: %+v", stats)
	}

	all, err := svc.Stats(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("manager stats: %v", err)
	}
	if all.TotalLeads != 3 || all.TotalProjects != 2 {
		t.Errorf("manager counts wrong: %+v", all)
	}
}
