package stripewebhooks

import (
	"context"
	"fmt"
	"time"

	"subscription-app/internal/domain/billing"
	stripeinfra "subscription-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionUpdated serves both created and updated events.
func (h *Handler) handleSubscriptionUpdated(ctx context.Context, sub *stripe.Subscription) error {
	cusID := customerID(sub.Customer)
	user, err := h.resolveUser(ctx, cusID)
	if err != nil || user == nil {
		return err
	}

	if h.cfg.StarterPriceID == "" || h.cfg.ProPriceID == "" {
		return errMissingPriceConfig
	}

	row, err := h.subscriptionFor(ctx, user.ID)
	if err != nil {
		return err
	}

	subID := sub.ID
	row.StripeSubscriptionID = &subID
	row.StripeCustomerID = &cusID
	row.Plan = stripeinfra.PlanForPrice(firstPriceID(sub), h.cfg.StarterPriceID)
	row.Status = stripeinfra.LocalStatus(sub.Status)
	row.TrialEndsAt = unixTime(sub.TrialEnd)
	row.CurrentPeriodStart = unixTime(sub.CurrentPeriodStart)
	row.CurrentPeriodEnd = unixTime(sub.CurrentPeriodEnd)
	row.CancelAtPeriodEnd = sub.CancelAtPeriodEnd

	if err := h.store.SaveSubscription(ctx, row); err != nil {
		return err
	}
	h.log.Info().
		Str("user_id", user.ID).
		Str("subscription_id", subID).
		Str("plan", string(row.Plan)).
		Str("status", string(row.Status)).
		Msg("subscription synced")
	return nil
}

func (h *Handler) subscriptionFor(ctx context.Context, userID string) (*billing.Subscription, error) {
	row, err := h.store.FindSubscription(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscription for user %s: %w", userID, err)
	}
	return row, nil
}

func firstPriceID(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
