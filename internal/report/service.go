// Package report builds the date-range activity report and its CSV/PDF
// exports. Strictly read-only over the lead/project/customer tables.
package report

import (
	"context"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/policy"

	"gorm.io/gorm"
)

// Report is the date-range activity snapshot.
type Report struct {
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Leads     []models.Lead     `json:"leads"`
	Projects  []models.Project  `json:"projects"`
	Customers []models.Customer `json:"customers"`
}

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// Build collects leads, projects and customers created inside the range,
// scoped to the user's visibility.
func (s *Service) Build(ctx context.Context, start, end time.Time, userID uint, isManager bool) (*Report, error) {
	r := &Report{Start: start, End: end}
	scope := policy.ScopeToOwner(userID, isManager)

	if err := s.DB.WithContext(ctx).Scopes(scope).Preload("User").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at desc").Find(&r.Leads).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Scopes(scope).Preload("Lead").Preload("Items.Product").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at desc").Find(&r.Projects).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Scopes(policy.ScopeToOwnedLead(userID, isManager)).
		Preload("Lead").
		Where("customers.created_at BETWEEN ? AND ?", start, end).
		Order("customers.created_at desc").Find(&r.Customers).Error; err != nil {
		return nil, err
	}
	return r, nil
}
