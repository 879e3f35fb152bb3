package models

import "time"

// Lead statuses. new/contacted/negotiation are set manually by the owning
// salesperson; deal and cancel are driven by the project lifecycle.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusNegotiation = "negotiation"
	LeadStatusDeal        = "deal"
	LeadStatusCancel      = "cancel"
)

// LeadStatuses lists every valid lead status, used by input validation.
var LeadStatuses = []string{
	LeadStatusNew, LeadStatusContacted, LeadStatusNegotiation, LeadStatusDeal, LeadStatusCancel,
}

// Lead is a prospective customer inquiry.
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Needs     string    `json:"needs"`
	Status    string    `gorm:"not null;default:'new';index" json:"status"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // owning salesperson
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project   *Project  `gorm:"foreignKey:LeadID" json:"project,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetUserID implements policy.Ownable.
func (l *Lead) GetUserID() uint { return l.UserID }
