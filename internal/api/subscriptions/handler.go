package subscriptions

import (
	"errors"
	"net/http"

	"subscription-app/internal/apperr"
	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/access"
	"subscription-app/internal/domain/billing"
	stripeinfra "subscription-app/internal/infra/stripe"
	"subscription-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	store    store.Store
	provider stripeinfra.Provider
	policy   *access.Evaluator
	prices   billing.Prices
	log      zerolog.Logger
}

func NewHandler(s store.Store, provider stripeinfra.Provider, policy *access.Evaluator, prices billing.Prices, log zerolog.Logger) *Handler {
	return &Handler{store: s, provider: provider, policy: policy, prices: prices, log: log}
}

type planResponse struct {
	*billing.Subscription
	Access access.Entitlements `json:"access"`
}

// GetPlan returns the caller's subscription row with derived entitlements.
func (h *Handler) GetPlan(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	sub, err := h.store.FindSubscription(c.Request.Context(), id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		apperr.Respond(c, apperr.NotFound("Subscription not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load subscription", err))
		return
	}

	ent, err := h.policy.Entitlements(c.Request.Context(), id.UserID)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load subscription", err))
		return
	}
	c.JSON(http.StatusOK, planResponse{Subscription: sub, Access: ent})
}

// CreateCheckoutSession starts a hosted checkout. Local subscription state is
// left alone; it changes when the provider's webhook arrives.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Plan billing.Plan `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.Plan.Paid() {
		apperr.Respond(c, apperr.Validation("Invalid plan"))
		return
	}

	priceID := h.prices.For(body.Plan)
	if priceID == "" {
		h.log.Error().Str("plan", string(body.Plan)).Msg("price id not configured")
		apperr.Respond(c, apperr.Internal("Billing not configured", nil))
		return
	}

	ctx := c.Request.Context()
	id, _ := middleware.IdentityFrom(c)

	user, err := h.store.FindUserByID(ctx, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		apperr.Respond(c, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load user", err))
		return
	}

	customerID, err := h.provider.GetOrCreateCustomer(ctx, user.Email)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("stripe customer lookup failed")
		apperr.Respond(c, apperr.Upstream(stripeinfra.ProviderMessage(err), err))
		return
	}

	session, err := h.provider.CreateCheckoutSession(ctx, customerID, priceID, user.Email)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("stripe checkout session failed")
		apperr.Respond(c, apperr.Upstream(stripeinfra.ProviderMessage(err), err))
		return
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		if err := h.store.SetUserCustomerID(ctx, user.ID, customerID); err != nil {
			apperr.Respond(c, apperr.Internal("Failed to store Stripe customer", err))
			return
		}
	}

	h.log.Info().Str("user_id", user.ID).Str("plan", string(body.Plan)).Str("session_id", session.ID).Msg("checkout session created")
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

// CancelSubscription asks the provider to cancel at period end. The local row
// is updated by the subscription.updated / deleted webhooks.
func (h *Handler) CancelSubscription(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := middleware.IdentityFrom(c)

	sub, err := h.store.FindSubscription(ctx, id.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		apperr.Respond(c, apperr.Internal("Failed to load subscription", err))
		return
	}
	if sub == nil || sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID == "" {
		apperr.Respond(c, apperr.Validation("No active subscription"))
		return
	}

	if err := h.provider.CancelSubscription(ctx, *sub.StripeSubscriptionID); err != nil {
		h.log.Error().Err(err).Str("user_id", id.UserID).Msg("stripe cancel failed")
		apperr.Respond(c, apperr.Upstream(stripeinfra.ProviderMessage(err), err))
		return
	}

	h.log.Info().Str("user_id", id.UserID).Str("subscription_id", *sub.StripeSubscriptionID).Msg("cancellation scheduled")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
