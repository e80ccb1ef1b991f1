package billing

import domain "subscription-app/internal/domain/billing"

// customerIDFor prefers the id the webhook wrote on the subscription and falls
// back to the one stored on the user at checkout.
func customerIDFor(sub *domain.Subscription, userCustomerID *string) string {
	if sub != nil && sub.StripeCustomerID != nil && *sub.StripeCustomerID != "" {
		return *sub.StripeCustomerID
	}
	if userCustomerID != nil {
		return *userCustomerID
	}
	return ""
}
