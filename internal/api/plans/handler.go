package plans

import (
	"net/http"

	"subscription-app/internal/domain/billing"
	stripeinfra "subscription-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
)

type PlanDTO struct {
	Plan      billing.Plan `json:"plan"`
	Paid      bool         `json:"paid"`
	PriceID   string       `json:"priceId,omitempty"`
	TrialDays int64        `json:"trialDays,omitempty"`
}

type Handler struct {
	prices billing.Prices
}

func NewHandler(prices billing.Prices) *Handler {
	return &Handler{prices: prices}
}

// ListPlans returns the fixed catalog in upgrade order. Paid plans without a
// configured price are left out.
func (h *Handler) ListPlans(c *gin.Context) {
	out := []PlanDTO{{Plan: billing.PlanFree}}
	for _, p := range []billing.Plan{billing.PlanStarter, billing.PlanPro} {
		price := h.prices.For(p)
		if price == "" {
			continue
		}
		out = append(out, PlanDTO{Plan: p, Paid: true, PriceID: price, TrialDays: stripeinfra.TrialPeriodDays})
	}
	c.JSON(http.StatusOK, out)
}
