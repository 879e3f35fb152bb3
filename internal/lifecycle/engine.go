// Package lifecycle owns the state machine tying project status to lead
// status and customer existence. Every mutation runs in one transaction so
// the invariant (a customer row exists iff the lead's project is approved)
// is never observable in a broken state.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"salescrm/internal/models"
	"salescrm/internal/pricing"

	"gorm.io/gorm"
)

var (
	ErrLeadNotFound    = errors.New("lifecycle: lead not found")
	ErrProjectNotFound = errors.New("lifecycle: project not found")
	// ErrProjectExists enforces at most one open project per lead.
	ErrProjectExists = errors.New("lifecycle: lead already has a project")
	// ErrLeadMismatch is returned when an update tries to re-point a project
	// at a different lead, which would break the one-project-per-lead rule.
	ErrLeadMismatch = errors.New("lifecycle: project belongs to a different lead")
	ErrNotOwner     = errors.New("lifecycle: lead owned by another user")
	// ErrPersistence wraps any transaction-level failure; the operation was
	// rolled back fully and the caller's input remains valid for retry.
	ErrPersistence = errors.New("lifecycle: persistence failure")
)

// Actor identifies the requesting user to the engine.
type Actor struct {
	UserID  uint
	Manager bool
}

type Engine struct {
	DB      *gorm.DB
	Pricing *pricing.Engine
}

func NewEngine(db *gorm.DB, pe *pricing.Engine) *Engine {
	return &Engine{DB: db, Pricing: pe}
}

// CreateProject evaluates the line items and persists the project, its items
// and the resulting lead/customer transition atomically.
//
// Preconditions: the actor owns the lead (or is a manager) and the lead has
// no project yet. A waiting verdict leaves the lead untouched; an approved
// verdict moves the lead to deal and materializes the customer.
func (e *Engine) CreateProject(ctx context.Context, leadID uint, items []pricing.LineItem, actor Actor) (*models.Project, error) {
	var lead models.Lead
	if err := e.DB.WithContext(ctx).First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	if !actor.Manager && lead.UserID != actor.UserID {
		return nil, ErrNotOwner
	}
	var existing int64
	if err := e.DB.WithContext(ctx).Model(&models.Project{}).
		Where("lead_id = ?", leadID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrProjectExists
	}

	res, err := e.Pricing.Evaluate(ctx, items)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		LeadID:     leadID,
		UserID:     actor.UserID,
		Status:     res.Verdict,
		TotalPrice: res.Total,
	}
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if err := insertItems(tx, project.ID, res.Items); err != nil {
			return err
		}
		// Project-absent -> verdict. Waiting changes nothing on the lead.
		if res.Verdict == models.ProjectStatusApproved {
			return markDeal(tx, &lead)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &project, nil
}

// UpdateProject re-evaluates the line items as if new, applies a manager's
// status override when present, replaces all items and re-derives the
// lead/customer state from the status change. Everything happens in one
// transaction; a status that did not change fires no customer side effects.
func (e *Engine) UpdateProject(ctx context.Context, projectID, leadID uint, items []pricing.LineItem, override *string, actor Actor) (*models.Project, error) {
	var project models.Project
	if err := e.DB.WithContext(ctx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.LeadID != leadID {
		return nil, ErrLeadMismatch
	}

	res, err := e.Pricing.Evaluate(ctx, items)
	if err != nil {
		return nil, err
	}

	status := res.Verdict
	// Only a manager's override supersedes the computed verdict.
	if override != nil && actor.Manager {
		status = *override
	}

	prev := project.Status
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project.Status = status
		project.TotalPrice = res.Total
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		// Items are replaced wholesale, never patched individually.
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectItem{}).Error; err != nil {
			return err
		}
		if err := insertItems(tx, project.ID, res.Items); err != nil {
			return err
		}
		if status == prev {
			return nil
		}
		return e.applyTransition(tx, project.LeadID, status)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &project, nil
}

// DeleteProject removes the project and its items, returns the lead to
// negotiation and deletes any customer. Atomic.
func (e *Engine) DeleteProject(ctx context.Context, projectID uint) error {
	var project models.Project
	if err := e.DB.WithContext(ctx).First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&project).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Lead{}).Where("id = ?", project.LeadID).
			Update("status", models.LeadStatusNegotiation).Error; err != nil {
			return err
		}
		return deleteCustomerByLead(tx, project.LeadID)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// applyTransition synchronizes lead status and customer existence after the
// project status actually changed:
//
//	-> approved: lead becomes deal, customer created if none exists
//	-> waiting:  lead returns to negotiation, customer deleted
//	-> rejected: lead becomes cancel, customer deleted
func (e *Engine) applyTransition(tx *gorm.DB, leadID uint, status string) error {
	var lead models.Lead
	if err := tx.First(&lead, leadID).Error; err != nil {
		return err
	}
	switch status {
	case models.ProjectStatusApproved:
		return markDeal(tx, &lead)
	case models.ProjectStatusWaiting:
		if err := tx.Model(&models.Lead{}).Where("id = ?", leadID).
			Update("status", models.LeadStatusNegotiation).Error; err != nil {
			return err
		}
		return deleteCustomerByLead(tx, leadID)
	case models.ProjectStatusRejected:
		if err := tx.Model(&models.Lead{}).Where("id = ?", leadID).
			Update("status", models.LeadStatusCancel).Error; err != nil {
			return err
		}
		return deleteCustomerByLead(tx, leadID)
	default:
		return fmt.Errorf("unknown project status %q", status)
	}
}

// markDeal moves the lead to deal and materializes the customer from the
// lead's current fields, unless one already exists.
func markDeal(tx *gorm.DB, lead *models.Lead) error {
	if err := tx.Model(&models.Lead{}).Where("id = ?", lead.ID).
		Update("status", models.LeadStatusDeal).Error; err != nil {
		return err
	}
	var count int64
	if err := tx.Model(&models.Customer{}).Where("lead_id = ?", lead.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	customer := models.Customer{
		LeadID:  lead.ID,
		Name:    lead.Name,
		Contact: lead.Contact,
		Address: lead.Address,
		Status:  models.CustomerStatusActive,
	}
	return tx.Create(&customer).Error
}

func deleteCustomerByLead(tx *gorm.DB, leadID uint) error {
	return tx.Where("lead_id = ?", leadID).Delete(&models.Customer{}).Error
}

func insertItems(tx *gorm.DB, projectID uint, items []pricing.PricedItem) error {
	rows := make([]models.ProjectItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, models.ProjectItem{
			ProjectID: projectID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		})
	}
	return tx.Create(&rows).Error
}
