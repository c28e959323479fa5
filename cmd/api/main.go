package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mercatohq/mercato-backend/api/routes"
	"github.com/mercatohq/mercato-backend/internal/assets"
	"github.com/mercatohq/mercato-backend/internal/ledger"
	"github.com/mercatohq/mercato-backend/internal/listings"
	"github.com/mercatohq/mercato-backend/internal/payouts"
	"github.com/mercatohq/mercato-backend/internal/sellers"
	"github.com/mercatohq/mercato-backend/internal/transactions"
	creditswebhook "github.com/mercatohq/mercato-backend/internal/webhooks/credits"
	"github.com/mercatohq/mercato-backend/internal/webhooks/guard"
	saleswebhook "github.com/mercatohq/mercato-backend/internal/webhooks/sales"
	"github.com/mercatohq/mercato-backend/pkg/config"
	"github.com/mercatohq/mercato-backend/pkg/db"
	"github.com/mercatohq/mercato-backend/pkg/logger"
	"github.com/mercatohq/mercato-backend/pkg/metrics"
	"github.com/mercatohq/mercato-backend/pkg/migrate"
	"github.com/mercatohq/mercato-backend/pkg/redis"
	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	salesService, err := saleswebhook.NewService(saleswebhook.ServiceParams{
		ListingRepo:     listings.NewRepository(dbClient.DB()),
		AssetRepo:       assets.NewRepository(dbClient.DB()),
		TransactionRepo: transactions.NewRepository(dbClient.DB()),
		PayoutRepo:      payouts.NewRepository(dbClient.DB()),
		SellerRepo:      sellers.NewRepository(dbClient.DB()),
		StripeClient:    saleswebhook.NewStripeClient(stripeClient),
		Logger:          logg,
		PayoutDelay:     cfg.Payout.Delay,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales webhook service", err)
		os.Exit(1)
	}

	creditsService, err := creditswebhook.NewService(creditswebhook.ServiceParams{
		LedgerService: ledgerService,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create credits webhook service", err)
		os.Exit(1)
	}

	salesGuard, err := guard.NewIdempotencyGuard(redisClient, cfg.Stripe.WebhookGuardTTL, "stripe-sales")
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency guard", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			stripeClient,
			salesService,
			creditsService,
			salesGuard,
			webhookMetrics,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
