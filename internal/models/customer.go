package models

import "time"

// Customer statuses.
const (
	CustomerStatusActive    = "active"
	CustomerStatusNonActive = "non-active"
)

// Customer materializes a lead whose project reached the approved state.
// Name/contact/address are snapshots of the lead at conversion time.
// A customer row exists if and only if the lead's project is approved;
// the lifecycle engine owns that invariant.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LeadID    uint      `gorm:"not null;uniqueIndex" json:"lead_id"`
	Lead      Lead      `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Status    string    `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
