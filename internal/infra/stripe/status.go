package stripe

import (
	"subscription-app/internal/domain/billing"

	stripego "github.com/stripe/stripe-go/v75"
)

// LocalStatus collapses a provider subscription status into the local set.
// Only trialing is distinguished; every other provider status maps to ACTIVE.
// PAST_DUE and CANCELED are set by the invoice and deletion events instead.
func LocalStatus(s stripego.SubscriptionStatus) billing.Status {
	if s == stripego.SubscriptionStatusTrialing {
		return billing.StatusTrialing
	}
	return billing.StatusActive
}

// PlanForPrice maps a line item price to a plan. Anything that is not the
// starter price is treated as PRO.
func PlanForPrice(priceID, starterPriceID string) billing.Plan {
	if priceID != "" && priceID == starterPriceID {
		return billing.PlanStarter
	}
	return billing.PlanPro
}
