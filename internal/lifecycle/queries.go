package lifecycle

import (
	"context"
	"errors"

	"salescrm/internal/models"

	"gorm.io/gorm"
)

// GetProject loads a project with its items.
func (e *Engine) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := e.DB.WithContext(ctx).Preload("Items").First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectForLead returns the lead's project, or nil if none exists.
func (e *Engine) ProjectForLead(ctx context.Context, leadID uint) (*models.Project, error) {
	var project models.Project
	err := e.DB.WithContext(ctx).Preload("Items").Where("lead_id = ?", leadID).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CustomerExistsForLead reports whether the lead has a materialized customer.
func (e *Engine) CustomerExistsForLead(ctx context.Context, leadID uint) (bool, error) {
	var count int64
	err := e.DB.WithContext(ctx).Model(&models.Customer{}).
		Where("lead_id = ?", leadID).Count(&count).Error
	return count > 0, err
}
