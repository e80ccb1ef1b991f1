package admin

import (
	"errors"
	"net/http"

	"subscription-app/internal/apperr"
	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"
	"subscription-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler serves the operator endpoints. Every route sits behind the admin
// role guard.
type Handler struct {
	store store.Store
	log   zerolog.Logger
}

func NewHandler(s store.Store, log zerolog.Logger) *Handler {
	return &Handler{store: s, log: log}
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load users", err))
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.store.FindUserByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		apperr.Respond(c, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load user", err))
		return
	}
	c.JSON(http.StatusOK, u)
}

// GrantPro overrides the user's subscription to PRO/ACTIVE. The provider is
// not told; the next subscription webhook for this user wins.
func (h *Handler) GrantPro(c *gin.Context) {
	h.override(c, billing.PlanPro, billing.StatusActive)
}

// RevokeAccess drops the user to FREE/ACTIVE.
func (h *Handler) RevokeAccess(c *gin.Context) {
	h.override(c, billing.PlanFree, billing.StatusActive)
}

func (h *Handler) override(c *gin.Context, plan billing.Plan, status billing.Status) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	sub, err := h.store.FindSubscription(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		apperr.Respond(c, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load subscription", err))
		return
	}

	sub.Plan = plan
	sub.Status = status
	if err := h.store.SaveSubscription(ctx, sub); err != nil {
		apperr.Respond(c, apperr.Internal("Failed to update subscription", err))
		return
	}

	admin, _ := middleware.IdentityFrom(c)
	h.log.Info().
		Str("admin_id", admin.UserID).
		Str("user_id", userID).
		Str("plan", string(plan)).
		Str("status", string(status)).
		Msg("subscription overridden")

	c.JSON(http.StatusOK, sub)
}

type stripeConfigRequest struct {
	PublishableKey string `json:"publishableKey"`
	SecretKey      string `json:"secretKey"`
	WebhookSecret  string `json:"webhookSecret"`
}

// GetStripeConfig never returns the stored secrets, only whether one is set.
func (h *Handler) GetStripeConfig(c *gin.Context) {
	admin, _ := middleware.IdentityFrom(c)

	p, err := h.store.FindAdminProfile(c.Request.Context(), admin.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"publishableKey": "", "hasSecretKey": false})
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load Stripe config", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publishableKey": p.StripePublishableKey,
		"hasSecretKey":   p.StripeSecretKey != "",
	})
}

// UpdateStripeConfig upserts the caller's profile. Empty fields keep the
// stored value.
func (h *Handler) UpdateStripeConfig(c *gin.Context) {
	var in stripeConfigRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request"))
		return
	}

	ctx := c.Request.Context()
	admin, _ := middleware.IdentityFrom(c)

	p, err := h.store.FindAdminProfile(ctx, admin.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p = &users.AdminProfile{ID: uuid.NewString(), UserID: admin.UserID}
	case err != nil:
		apperr.Respond(c, apperr.Internal("Failed to load Stripe config", err))
		return
	}

	if in.PublishableKey != "" {
		p.StripePublishableKey = in.PublishableKey
	}
	if in.SecretKey != "" {
		p.StripeSecretKey = in.SecretKey
	}
	if in.WebhookSecret != "" {
		p.StripeWebhookSecret = in.WebhookSecret
	}

	if err := h.store.SaveAdminProfile(ctx, p); err != nil {
		apperr.Respond(c, apperr.Internal("Failed to save Stripe config", err))
		return
	}
	h.log.Info().Str("admin_id", admin.UserID).Msg("stripe config updated")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
