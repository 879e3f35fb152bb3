package policy

import "gorm.io/gorm"

// ScopeToOwner narrows a lead/project query to rows owned by the user unless
// the caller is a manager. Applied at the repository boundary so the engines
// below never see rows the requester may not touch.
func ScopeToOwner(userID uint, isManager bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if isManager {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}

// ScopeToOwnedLead narrows a query on a table that reaches its owner through
// the leads table (customers) to leads owned by the user, unless manager.
func ScopeToOwnedLead(userID uint, isManager bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if isManager {
			return db
		}
		return db.Joins("JOIN leads ON leads.id = customers.lead_id").
			Where("leads.user_id = ?", userID)
	}
}
