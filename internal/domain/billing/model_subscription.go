package billing

import "time"

type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanStarter Plan = "STARTER"
	PlanPro     Plan = "PRO"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusTrialing Status = "TRIALING"
	StatusPastDue  Status = "PAST_DUE"
	StatusCanceled Status = "CANCELED"
)

// Subscription mirrors the payment provider's subscription for one user.
// Plan and Status are stored as received; combinations are not validated.
type Subscription struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscriptions_user_id" json:"userId"`

	Plan   Plan   `gorm:"type:varchar(16);not null;default:'FREE'" json:"plan"`
	Status Status `gorm:"type:varchar(16);not null;default:'ACTIVE'" json:"status"`

	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id" json:"stripeSubscriptionId"`
	StripeCustomerID     *string `gorm:"column:stripe_customer_id" json:"stripeCustomerId"`

	TrialEndsAt        *time.Time `gorm:"column:trial_ends_at" json:"trialEndsAt"`
	CurrentPeriodStart *time.Time `gorm:"column:current_period_start" json:"currentPeriodStart"`
	CurrentPeriodEnd   *time.Time `gorm:"column:current_period_end" json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool       `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancelAtPeriodEnd"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDefault returns the FREE/ACTIVE subscription every user starts with.
func NewDefault(id, userID string) *Subscription {
	return &Subscription{
		ID:     id,
		UserID: userID,
		Plan:   PlanFree,
		Status: StatusActive,
	}
}

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro:
		return true
	}
	return false
}

// Paid reports whether the plan can be bought through checkout.
func (p Plan) Paid() bool {
	return p == PlanStarter || p == PlanPro
}
