package model

import (
	"fmt"
	"time"
)

type Subscription struct {
	ID               string     `db:"id" json:"-"`
	UserID           string     `db:"user_id" json:"-"`
	PlanID           string     `db:"plan_id" json:"planId"`
	Status           string     `db:"status" json:"status"`
	Amount           *int       `db:"amount" json:"amount,omitempty"`
	Currency         string     `db:"currency" json:"currency"`
	CurrentPeriodEnd *time.Time `db:"current_period_end" json:"currentPeriodEnd,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"-"`
	UpdatedAt        time.Time  `db:"updated_at" json:"-"`
}

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

const (
	SubscriptionPlanFree    = "free"
	SubscriptionPlanMonthly = "monthly"
	SubscriptionPlanYearly  = "yearly"
)

const (
	FeatureExport          = "export"
	FeaturePrioritySupport = "priority_support"
)

// FreeCareerLimit is the number of active careers on the free plan.
const FreeCareerLimit = 3

// PlanPrices are in the smallest currency unit.
var PlanPrices = map[string]int{
	SubscriptionPlanMonthly: 79900,
	SubscriptionPlanYearly:  799900,
}

const PlanCurrency = "inr"

func ValidPaidPlan(plan string) bool {
	_, ok := PlanPrices[plan]
	return ok
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

func (s *Subscription) IsPaid() bool {
	return s.PlanID != SubscriptionPlanFree && s.IsActive()
}

func (s *Subscription) FormatPrice() string {
	if s.Amount == nil || *s.Amount == 0 {
		return ""
	}

	currencySymbols := map[string]string{
		"inr": "₹",
		"usd": "$",
		"eur": "€",
	}

	amount := float64(*s.Amount) / 100.0
	symbol := currencySymbols[s.Currency]
	if symbol == "" {
		symbol = "$"
	}

	interval := "mo"
	if s.PlanID == SubscriptionPlanYearly {
		interval = "yr"
	}

	return fmt.Sprintf("%s%.0f/%s", symbol, amount, interval)
}

// GetCareerLimit returns the maximum number of active careers for this plan.
// Returns -1 for unlimited
func (s *Subscription) GetCareerLimit() int {
	if !s.IsPaid() {
		return FreeCareerLimit
	}
	return -1
}

// HasFeature checks if the subscription has access to a specific feature
func (s *Subscription) HasFeature(feature string) bool {
	if !s.IsActive() {
		return false
	}

	features := map[string][]string{
		SubscriptionPlanFree:    {},
		SubscriptionPlanMonthly: {FeatureExport},
		SubscriptionPlanYearly:  {FeatureExport, FeaturePrioritySupport},
	}

	for _, f := range features[s.PlanID] {
		if f == feature {
			return true
		}
	}

	return false
}
