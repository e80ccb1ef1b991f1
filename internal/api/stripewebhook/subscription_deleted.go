package stripewebhooks

import (
	"context"

	"subscription-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleSubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	user, err := h.resolveUser(ctx, customerID(sub.Customer))
	if err != nil || user == nil {
		return err
	}

	row, err := h.subscriptionFor(ctx, user.ID)
	if err != nil {
		return err
	}

	row.Plan = billing.PlanFree
	row.Status = billing.StatusCanceled

	if err := h.store.SaveSubscription(ctx, row); err != nil {
		return err
	}
	h.log.Info().Str("user_id", user.ID).Str("subscription_id", sub.ID).Msg("subscription canceled")
	return nil
}
