// Package leads handles the manual side of the lead funnel: CRUD and the
// hand-driven status edits. Automatic transitions (deal, cancel, back to
// negotiation) belong to the lifecycle engine.
package leads

import (
	"context"
	"errors"

	"salescrm/internal/models"
	"salescrm/internal/policy"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("leads: lead not found")

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// Create stores a new lead owned by the given salesperson.
func (s *Service) Create(ctx context.Context, lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	return s.DB.WithContext(ctx).Create(lead).Error
}

// Update edits the lead's fields, including manual status changes.
func (s *Service) Update(ctx context.Context, lead *models.Lead) error {
	return s.DB.WithContext(ctx).Save(lead).Error
}

// Get returns one lead.
func (s *Service) Get(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := s.DB.WithContext(ctx).First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// List returns leads visible to the user, newest first. Sales see only their
// own rows; managers see everything.
func (s *Service) List(ctx context.Context, userID uint, isManager bool) ([]models.Lead, error) {
	var out []models.Lead
	err := s.DB.WithContext(ctx).
		Scopes(policy.ScopeToOwner(userID, isManager)).
		Preload("User").
		Order("created_at desc").Find(&out).Error
	return out, err
}

// Available returns the user's negotiation-stage leads without a project,
// the only leads eligible for project creation.
func (s *Service) Available(ctx context.Context, userID uint) ([]models.Lead, error) {
	var out []models.Lead
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.LeadStatusNegotiation).
		Where("id NOT IN (?)", s.DB.Model(&models.Project{}).Select("lead_id")).
		Order("created_at desc").Find(&out).Error
	return out, err
}

// Delete removes leads permanently, together with their dependent projects,
// items and customers, in one transaction. Done explicitly rather than via FK
// cascade so the AutoMigrate schema behaves the same as the SQL one.
func (s *Service) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("lead_id IN ?", ids).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}
		if len(projectIDs) > 0 {
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("lead_id IN ?", ids).Delete(&models.Customer{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Lead{}).Error
	})
}
