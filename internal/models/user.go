package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names seeded at startup.
const (
	RoleManager = "manager"
	RoleSales   = "sales"
)

// User & auth related models
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;index" json:"name"`
	Email     string         `gorm:"unique;not null;index" json:"email"`
	Password  string         `gorm:"not null" json:"-"` // bcrypt hash
	RoleID    uint           `gorm:"not null;index" json:"role_id"`
	Role      Role           `gorm:"foreignKey:RoleID" json:"role"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"unique;not null" json:"name"` // manager, sales
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission is one allowed resource/action pair attached to a role.
type Permission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ResourceType string    `gorm:"not null;index:idx_resource_action,unique,priority:1" json:"resource_type"`
	Action       string    `gorm:"not null;index:idx_resource_action,priority:2" json:"action"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
