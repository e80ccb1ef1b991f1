package routes

import (
	"net/http"

	adminapi "subscription-app/internal/api/admin"
	authapi "subscription-app/internal/api/auth"
	"subscription-app/internal/api/billing"
	"subscription-app/internal/api/plans"
	stripewebhooks "subscription-app/internal/api/stripewebhook"
	"subscription-app/internal/api/subscriptions"
	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const APIRoot = "/api/v1"

// Fields the sanitizer must pass through untouched.
var secretFields = []string{"password", "confirmPassword", "secretKey", "webhookSecret"}

type Deps struct {
	Auth          *authapi.Handler
	Subscriptions *subscriptions.Handler
	Billing       *billing.Handler
	Plans         *plans.Handler
	Admin         *adminapi.Handler
	Webhooks      *stripewebhooks.Handler
	Tokens        middleware.TokenVerifier
	Log           zerolog.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group(APIRoot)

	// Signature verification needs the exact bytes, so the webhook goes in
	// before any body middleware.
	api.POST("/webhooks/webhook", d.Webhooks.StripeWebhook)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/plans", d.Plans.ListPlans)

	sanitize := middleware.SanitizeAndCleanInputMiddleware(secretFields...)
	requireAuth := middleware.AuthMiddleware(d.Tokens, d.Log)

	public := api.Group("/auth")
	public.Use(sanitize)
	public.POST("/signup", d.Auth.Signup)
	public.POST("/login", d.Auth.Login)

	// Authenticated
	auth := api.Group("/")
	auth.Use(sanitize, requireAuth)
	auth.GET("/auth/me", d.Auth.Me)
	auth.GET("/subscriptions/plan", d.Subscriptions.GetPlan)
	auth.POST("/subscriptions/create-checkout-session", d.Subscriptions.CreateCheckoutSession)
	auth.POST("/subscriptions/cancel-subscription", d.Subscriptions.CancelSubscription)
	auth.POST("/billing/create-portal-session", d.Billing.CreatePortalSession)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(sanitize, requireAuth, middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", d.Admin.ListUsers)
	admin.GET("/users/:id", d.Admin.GetUser)
	admin.POST("/users/:id/grant-pro", d.Admin.GrantPro)
	admin.POST("/users/:id/revoke-access", d.Admin.RevokeAccess)
	admin.GET("/stripe-config", d.Admin.GetStripeConfig)
	admin.POST("/stripe-config", d.Admin.UpdateStripeConfig)
}
