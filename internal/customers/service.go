// Package customers is the read-only surface over materialized customers.
// Creation and deletion are owned exclusively by the lifecycle engine.
package customers

import (
	"context"
	"errors"

	"salescrm/internal/models"
	"salescrm/internal/policy"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("customers: customer not found")

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// List returns customers visible to the user, newest first. Sales see only
// customers converted from their own leads.
func (s *Service) List(ctx context.Context, userID uint, isManager bool) ([]models.Customer, error) {
	var out []models.Customer
	err := s.DB.WithContext(ctx).
		Scopes(policy.ScopeToOwnedLead(userID, isManager)).
		Preload("Lead.User").
		Order("customers.created_at desc").Find(&out).Error
	return out, err
}

// Get returns one customer with the lead and its approved project preloaded.
func (s *Service) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.DB.WithContext(ctx).
		Preload("Lead.Project.Items").
		First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
