package models

import "time"

// Project statuses.
const (
	ProjectStatusWaiting  = "waiting"
	ProjectStatusApproved = "approved"
	ProjectStatusRejected = "rejected"
)

// ProjectStatuses lists the valid project statuses a manager may select.
var ProjectStatuses = []string{ProjectStatusWaiting, ProjectStatusApproved, ProjectStatusRejected}

// Project is a priced proposal tied to exactly one lead.
// TotalPrice always equals the sum of its items' subtotals at last save.
type Project struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	LeadID     uint          `gorm:"not null;uniqueIndex" json:"lead_id"` // one active project per lead
	Lead       Lead          `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	UserID     uint          `gorm:"not null;index" json:"user_id"` // creating salesperson
	User       User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status     string        `gorm:"not null;index" json:"status"`
	TotalPrice float64       `gorm:"not null" json:"total_price"`
	Items      []ProjectItem `gorm:"foreignKey:ProjectID" json:"items,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// GetUserID implements policy.Ownable.
func (p *Project) GetUserID() uint { return p.UserID }

// ProjectItem is one product entry within a project. Items are replaced
// wholesale (delete then insert) on every project update.
type ProjectItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`    // unit price actually offered
	Subtotal  float64   `gorm:"not null" json:"subtotal"` // quantity * price
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
