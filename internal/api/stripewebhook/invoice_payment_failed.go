package stripewebhooks

import (
	"context"

	"subscription-app/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

// handleInvoicePaymentFailed marks the subscription PAST_DUE; plan is kept.
func (h *Handler) handleInvoicePaymentFailed(ctx context.Context, inv *stripe.Invoice) error {
	user, err := h.resolveUser(ctx, customerID(inv.Customer))
	if err != nil || user == nil {
		return err
	}

	row, err := h.subscriptionFor(ctx, user.ID)
	if err != nil {
		return err
	}

	row.Status = billing.StatusPastDue

	if err := h.store.SaveSubscription(ctx, row); err != nil {
		return err
	}
	h.log.Warn().Str("user_id", user.ID).Str("invoice_id", inv.ID).Msg("invoice payment failed")
	return nil
}
