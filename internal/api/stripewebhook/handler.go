package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"subscription-app/internal/domain/users"
	"subscription-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = int64(65536)

const (
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

var errMissingPriceConfig = errors.New("missing Stripe price IDs in environment")

type Config struct {
	WebhookSecret  string
	StarterPriceID string
	ProPriceID     string
}

// Handler mirrors provider subscription state into the local store.
//
// Events are applied in delivery order with no timestamp or version check, so
// a stale event delivered late overwrites newer state. Events for customers
// with no local user are acknowledged and dropped.
type Handler struct {
	store store.Store
	cfg   Config
	log   zerolog.Logger
}

func NewHandler(s store.Store, cfg Config, log zerolog.Logger) *Handler {
	return &Handler{store: s, cfg: cfg, log: log}
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.cfg.WebhookSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn().Err(err).Msg("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	if err := h.Apply(c.Request.Context(), event); err != nil {
		h.log.Error().Err(err).Str("event_id", event.ID).Str("event_type", string(event.Type)).Msg("webhook processing failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Apply dispatches a verified event. Unhandled types are a no-op.
func (h *Handler) Apply(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parse subscription: %w", err)
		}
		return h.handleSubscriptionUpdated(ctx, &sub)

	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parse subscription: %w", err)
		}
		return h.handleSubscriptionDeleted(ctx, &sub)

	case EventInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("parse invoice: %w", err)
		}
		return h.handleInvoicePaymentFailed(ctx, &inv)

	default:
		h.log.Debug().Str("event_type", string(event.Type)).Msg("ignoring stripe event")
		return nil
	}
}

// resolveUser returns nil with no error when no user owns customerID.
func (h *Handler) resolveUser(ctx context.Context, customerID string) (*users.User, error) {
	if customerID == "" {
		return nil, nil
	}
	user, err := h.store.FindUserByCustomerID(ctx, customerID)
	if errors.Is(err, store.ErrNotFound) {
		h.log.Info().Str("customer_id", customerID).Msg("no local user for stripe customer")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by customer %s: %w", customerID, err)
	}
	return user, nil
}

func customerID(cus *stripe.Customer) string {
	if cus == nil {
		return ""
	}
	return cus.ID
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
