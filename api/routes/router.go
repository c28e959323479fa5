package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercatohq/mercato-backend/api/controllers"
	webhookcontrollers "github.com/mercatohq/mercato-backend/api/controllers/webhooks"
	"github.com/mercatohq/mercato-backend/api/middleware"
	"github.com/mercatohq/mercato-backend/internal/webhooks/guard"
	"github.com/mercatohq/mercato-backend/pkg/config"
	"github.com/mercatohq/mercato-backend/pkg/logger"
	"github.com/mercatohq/mercato-backend/pkg/metrics"
	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	stripeClient *pkgstripe.Client,
	salesService webhookcontrollers.StripeWebhookService,
	creditsService webhookcontrollers.StripeWebhookService,
	salesGuard *guard.IdempotencyGuard,
	webhookMetrics *metrics.WebhookMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks/stripe", func(r chi.Router) {
		r.Post("/sales", webhookcontrollers.StripeSalesWebhook(salesService, stripeClient.SalesSecrets(), salesGuard, webhookMetrics, logg))
		r.Post("/credits", webhookcontrollers.StripeCreditsWebhook(creditsService, stripeClient.CreditsSecrets(), webhookMetrics, logg))
	})

	return r
}
