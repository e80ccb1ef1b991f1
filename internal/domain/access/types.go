package access

import (
	"time"

	"subscription-app/internal/domain/billing"
)

// Entitlements is the read-side view of a subscription used by /me and /plan.
type Entitlements struct {
	Plan        billing.Plan   `json:"plan"`
	Status      billing.Status `json:"status"`
	CanUsePro   bool           `json:"canUsePro"`
	TrialActive bool           `json:"trialActive"`
	TrialEndsAt *time.Time     `json:"trialEndsAt"`
}
