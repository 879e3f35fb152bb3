package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog item. Price is derived from HPP (cost) and Margin by
// catalog.ComputeSellingPrice on every save that touches either field; it is
// never accepted from input.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;index" json:"name"`
	HPP       float64        `gorm:"not null" json:"hpp"`    // cost of goods
	Margin    float64        `gorm:"not null" json:"margin"` // percentage, e.g. 20 for 20%
	Price     float64        `gorm:"not null" json:"price"`  // selling price, derived
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
