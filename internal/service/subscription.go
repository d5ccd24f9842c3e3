package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
)

var (
	ErrInvalidPlan        = errors.New("invalid subscription plan")
	ErrAlreadySubscribed  = errors.New("already on this plan")
	ErrFeatureUnavailable = errors.New("feature requires a paid plan")
)

type SubscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

func (s *SubscriptionService) CreateFreeSubscription(userID string) error {
	now := time.Now()
	subscription := &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		PlanID:    model.SubscriptionPlanFree,
		Status:    model.SubscriptionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(subscription)
	if err != nil {
		return fmt.Errorf("failed to create free subscription: %w", err)
	}

	return nil
}

// Subscription returns the plan of a user. Accounts without a row are on the
// free plan.
func (s *SubscriptionService) Subscription(userID string) (*model.Subscription, error) {
	sub, err := s.repo.ByUserID(userID)
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		return &model.Subscription{
			UserID: userID,
			PlanID: model.SubscriptionPlanFree,
			Status: model.SubscriptionStatusActive,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// Subscribe switches the user to a paid plan. There is no payment processor;
// the plan is activated immediately for one billing period.
func (s *SubscriptionService) Subscribe(userID, plan string) (*model.Subscription, error) {
	if !model.ValidPaidPlan(plan) {
		return nil, ErrInvalidPlan
	}

	sub, err := s.Subscription(userID)
	if err != nil {
		return nil, err
	}
	if sub.PlanID == plan && sub.IsActive() {
		return nil, ErrAlreadySubscribed
	}

	amount := model.PlanPrices[plan]
	periodEnd := time.Now().AddDate(0, 1, 0)
	if plan == model.SubscriptionPlanYearly {
		periodEnd = time.Now().AddDate(1, 0, 0)
	}

	sub.PlanID = plan
	sub.Status = model.SubscriptionStatusActive
	sub.Amount = &amount
	sub.Currency = model.PlanCurrency
	sub.CurrentPeriodEnd = &periodEnd

	if sub.ID == "" {
		sub.ID = uuid.New().String()
		sub.CreatedAt = time.Now()
		sub.UpdatedAt = sub.CreatedAt
		err = s.repo.Create(sub)
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
	} else {
		err = s.UpdateSubscription(sub)
		if err != nil {
			return nil, err
		}
	}

	slog.Info("subscription activated", "user_id", userID, "plan", plan)
	return sub, nil
}

func (s *SubscriptionService) Cancel(userID string) (*model.Subscription, error) {
	sub, err := s.Subscription(userID)
	if err != nil {
		return nil, err
	}
	if sub.ID == "" || !sub.IsPaid() {
		return sub, nil
	}

	err = s.DowngradeToFree(sub)
	if err != nil {
		return nil, err
	}

	slog.Info("subscription cancelled", "user_id", userID)
	return sub, nil
}

// RequireFeature returns ErrFeatureUnavailable unless the plan includes feature.
func (s *SubscriptionService) RequireFeature(userID, feature string) error {
	sub, err := s.Subscription(userID)
	if err != nil {
		return err
	}
	if !sub.HasFeature(feature) {
		return fmt.Errorf("%w: %s", ErrFeatureUnavailable, feature)
	}
	return nil
}

func (s *SubscriptionService) UpdateSubscription(sub *model.Subscription) error {
	sub.UpdatedAt = time.Now()

	err := s.repo.Update(sub)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

func (s *SubscriptionService) DowngradeToFree(sub *model.Subscription) error {
	sub.PlanID = model.SubscriptionPlanFree
	sub.Status = model.SubscriptionStatusActive
	sub.CurrentPeriodEnd = nil
	sub.Amount = nil
	sub.Currency = ""

	return s.UpdateSubscription(sub)
}
