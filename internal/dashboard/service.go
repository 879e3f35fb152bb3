// Package dashboard computes the landing-page metrics: role-scoped totals
// with month-over-month deltas.
package dashboard

import (
	"context"
	"time"

	"salescrm/internal/models"
	"salescrm/internal/policy"

	"gorm.io/gorm"
)

// Stats is the metric block rendered on the dashboard.
type Stats struct {
	TotalLeads       int64   `json:"total_leads"`
	LeadsDelta       float64 `json:"leads_delta"`
	NegotiationLeads int64   `json:"negotiation_leads"`
	NegotiationDelta float64 `json:"negotiation_delta"`
	TotalProjects    int64   `json:"total_projects"`
	ProjectsDelta    float64 `json:"projects_delta"`
	ApprovedProjects int64   `json:"approved_projects"`
	ApprovedDelta    float64 `json:"approved_delta"`
	TotalCustomers   int64   `json:"total_customers"`
}

type Service struct {
	DB *gorm.DB
	// Now is overridable in tests.
	Now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// Stats computes the metric block for the user. Sales see their own numbers;
// managers see organization-wide ones.
func (s *Service) Stats(ctx context.Context, userID uint, isManager bool) (*Stats, error) {
	monthStart, monthEnd := lastMonthRange(s.Now())
	scope := policy.ScopeToOwner(userID, isManager)

	var out Stats
	counts := []struct {
		total *int64
		delta *float64
		query func(*gorm.DB) *gorm.DB
	}{
		{&out.TotalLeads, &out.LeadsDelta, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Lead{}).Scopes(scope)
		}},
		{&out.NegotiationLeads, &out.NegotiationDelta, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Lead{}).Scopes(scope).Where("status = ?", models.LeadStatusNegotiation)
		}},
		{&out.TotalProjects, &out.ProjectsDelta, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Project{}).Scopes(scope)
		}},
		{&out.ApprovedProjects, &out.ApprovedDelta, func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Project{}).Scopes(scope).Where("status = ?", models.ProjectStatusApproved)
		}},
	}
	for _, c := range counts {
		if err := c.query(s.DB.WithContext(ctx)).Count(c.total).Error; err != nil {
			return nil, err
		}
		var lastMonth int64
		if err := c.query(s.DB.WithContext(ctx)).
			Where("created_at BETWEEN ? AND ?", monthStart, monthEnd).
			Count(&lastMonth).Error; err != nil {
			return nil, err
		}
		*c.delta = delta(*c.total, lastMonth)
	}

	custQuery := s.DB.WithContext(ctx).Model(&models.Customer{}).
		Scopes(policy.ScopeToOwnedLead(userID, isManager))
	if err := custQuery.Count(&out.TotalCustomers).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// delta is the percentage change of current vs the last-month count.
func delta(current, lastMonth int64) float64 {
	if lastMonth == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-lastMonth) / float64(lastMonth) * 100
}

func lastMonthRange(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.Add(-time.Nanosecond)
	return start, end
}
