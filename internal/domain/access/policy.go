package access

import (
	"context"
	"errors"
	"time"

	"subscription-app/internal/domain/billing"
	"subscription-app/internal/store"
)

// CanUsePro is true for PRO subscriptions that are ACTIVE or TRIALING.
func CanUsePro(sub *billing.Subscription) bool {
	if sub == nil || sub.Plan != billing.PlanPro {
		return false
	}
	return sub.Status == billing.StatusActive || sub.Status == billing.StatusTrialing
}

// IsTrialActive requires both the TRIALING status and an unexpired trial end.
// A stale TRIALING status past its trial end counts as inactive.
func IsTrialActive(now time.Time, sub *billing.Subscription) bool {
	if sub == nil || sub.Status != billing.StatusTrialing || sub.TrialEndsAt == nil {
		return false
	}
	return now.Before(*sub.TrialEndsAt)
}

func For(now time.Time, sub *billing.Subscription) Entitlements {
	if sub == nil {
		return Entitlements{}
	}
	return Entitlements{
		Plan:        sub.Plan,
		Status:      sub.Status,
		CanUsePro:   CanUsePro(sub),
		TrialActive: IsTrialActive(now, sub),
		TrialEndsAt: sub.TrialEndsAt,
	}
}

// Evaluator answers entitlement questions for a user. Nothing is cached;
// every call reads the stored subscription again.
type Evaluator struct {
	store store.Store
	now   func() time.Time
}

func NewEvaluator(s store.Store) *Evaluator {
	return &Evaluator{store: s, now: time.Now}
}

func (e *Evaluator) CanUsePro(ctx context.Context, userID string) (bool, error) {
	sub, err := e.subscription(ctx, userID)
	if err != nil || sub == nil {
		return false, err
	}
	return CanUsePro(sub), nil
}

func (e *Evaluator) IsTrialActive(ctx context.Context, userID string) (bool, error) {
	sub, err := e.subscription(ctx, userID)
	if err != nil || sub == nil {
		return false, err
	}
	return IsTrialActive(e.now(), sub), nil
}

// Plan returns the stored plan, or "" when the user has no subscription row.
func (e *Evaluator) Plan(ctx context.Context, userID string) (billing.Plan, error) {
	sub, err := e.subscription(ctx, userID)
	if err != nil || sub == nil {
		return "", err
	}
	return sub.Plan, nil
}

func (e *Evaluator) Entitlements(ctx context.Context, userID string) (Entitlements, error) {
	sub, err := e.subscription(ctx, userID)
	if err != nil {
		return Entitlements{}, err
	}
	return For(e.now(), sub), nil
}

func (e *Evaluator) subscription(ctx context.Context, userID string) (*billing.Subscription, error) {
	sub, err := e.store.FindSubscription(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return sub, err
}
