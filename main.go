package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-app/config"
	"subscription-app/database"
	adminapi "subscription-app/internal/api/admin"
	authapi "subscription-app/internal/api/auth"
	"subscription-app/internal/api/billing"
	"subscription-app/internal/api/plans"
	stripewebhooks "subscription-app/internal/api/stripewebhook"
	"subscription-app/internal/api/subscriptions"
	routes "subscription-app/internal/app/http"
	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/access"
	domain "subscription-app/internal/domain/billing"
	"subscription-app/internal/infra/logger"
	stripeinfra "subscription-app/internal/infra/stripe"
	"subscription-app/internal/infra/token"
	"subscription-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(os.Getenv("APP_ENV"))
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.AppEnv)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DBURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise database")
	}
	st := store.NewGorm(db)

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	provider := stripeinfra.NewClient(cfg.StripeSecretKey, cfg.FrontendURL, nil)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// CORS goes in before the routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	prices := domain.Prices{Starter: cfg.StripeStarterPriceID, Pro: cfg.StripeProPriceID}

	routes.RegisterRoutes(r, routes.Deps{
		Auth:          authapi.NewHandler(authapi.NewService(st, issuer), log),
		Subscriptions: subscriptions.NewHandler(st, provider, access.NewEvaluator(st), prices, log),
		Billing:       billing.NewHandler(st, provider, log),
		Plans:         plans.NewHandler(prices),
		Admin:         adminapi.NewHandler(st, log),
		Webhooks: stripewebhooks.NewHandler(st, stripewebhooks.Config{
			WebhookSecret:  cfg.StripeWebhookSecret,
			StarterPriceID: cfg.StripeStarterPriceID,
			ProPriceID:     cfg.StripeProPriceID,
		}, log),
		Tokens: issuer,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server")
	}
	log.Info().Msg("server stopped")
}
