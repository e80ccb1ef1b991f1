package billing

import (
	"errors"
	"net/http"

	"subscription-app/internal/apperr"
	"subscription-app/internal/app/http/middleware"
	stripeinfra "subscription-app/internal/infra/stripe"
	"subscription-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	store    store.Store
	provider stripeinfra.Provider
	log      zerolog.Logger
}

func NewHandler(s store.Store, provider stripeinfra.Provider, log zerolog.Logger) *Handler {
	return &Handler{store: s, provider: provider, log: log}
}

// CreatePortalSession opens the provider's customer portal for the caller.
func (h *Handler) CreatePortalSession(c *gin.Context) {
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

	url, err := h.provider.CreatePortalSession(ctx, customerIDFor(user.Subscription, user.StripeCustomerID))
	if errors.Is(err, stripeinfra.ErrNoCustomerID) {
		apperr.Respond(c, apperr.Validation("No Stripe customer ID found. Please create a subscription first."))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("billing portal session failed")
		apperr.Respond(c, apperr.UpstreamStatus(http.StatusInternalServerError, stripeinfra.ProviderMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
