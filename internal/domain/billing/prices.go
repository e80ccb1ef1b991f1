package billing

// Prices holds the provider price id configured for each paid plan.
type Prices struct {
	Starter string
	Pro     string
}

// For returns the price id for plan, or "" for FREE and unknown plans.
func (p Prices) For(plan Plan) string {
	switch plan {
	case PlanStarter:
		return p.Starter
	case PlanPro:
		return p.Pro
	}
	return ""
}
