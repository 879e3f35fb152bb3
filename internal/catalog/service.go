// Package catalog owns product definitions and the derived selling price.
package catalog

import (
	"context"
	"errors"
	"math"

	"salescrm/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog: product not found")

// ComputeSellingPrice derives the catalog price from cost and margin
// percentage: hpp + hpp*margin/100, rounded to cents. Called explicitly on
// every save that changes either input; the price is never settable directly.
func ComputeSellingPrice(hpp, margin float64) float64 {
	price := hpp + hpp*margin/100
	return math.Round(price*100) / 100
}

// Service is the catalog component: product CRUD plus soft-delete lifecycle.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// Create stores a new product with its derived price.
func (s *Service) Create(ctx context.Context, name string, hpp, margin float64) (*models.Product, error) {
	p := models.Product{
		Name:   name,
		HPP:    hpp,
		Margin: margin,
		Price:  ComputeSellingPrice(hpp, margin),
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update edits name/cost/margin and recomputes the price.
func (s *Service) Update(ctx context.Context, id uint, name string, hpp, margin float64) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Name = name
	p.HPP = hpp
	p.Margin = margin
	p.Price = ComputeSellingPrice(hpp, margin)
	if err := s.DB.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns an active (non-trashed) product.
func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns active products, newest first. Trashed rows excluded.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// ListTrashed returns soft-deleted products only.
func (s *Service) ListTrashed(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.DB.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at desc").Find(&out).Error
	return out, err
}

// FindByIDs batch-loads active products by id. Missing or trashed ids are
// simply absent from the result; callers detect the gap.
func (s *Service) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var out []models.Product
	err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// SoftDelete tombstones one or more products.
func (s *Service) SoftDelete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Product{}).Error
}

// Restore clears the tombstone on a trashed product.
func (s *Service) Restore(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Purge permanently removes trashed products.
func (s *Service) Purge(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Unscoped().
		Where("id IN ? AND deleted_at IS NOT NULL", ids).
		Delete(&models.Product{}).Error
}
