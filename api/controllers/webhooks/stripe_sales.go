package webhooks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/mercatohq/mercato-backend/api/responses"
	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
	"github.com/mercatohq/mercato-backend/pkg/logger"
	"github.com/mercatohq/mercato-backend/pkg/metrics"
	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

const (
	salesReceiver   = "sales"
	creditsReceiver = "credits"
)

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// StripeSalesWebhook handles sale-settlement, reversal, and account-readiness
// events. Handler failures are logged and unmarked for redelivery, but the
// provider still gets a 200 so transient faults never trigger a retry storm.
func StripeSalesWebhook(
	svc StripeWebhookService,
	secrets pkgstripe.WebhookSecrets,
	guard stripeWebhookGuard,
	webhookMetrics *metrics.WebhookMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			webhookMetrics.IncRejected(salesReceiver)
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := verifyEvent(payload, sigHeader, secrets)
		if err != nil {
			webhookMetrics.IncRejected(salesReceiver)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithEventID(ctx, event.ID)
			ctx = logg.WithEventType(ctx, string(event.Type))
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			// Redis being down must not drop events; process without the guard.
			if logg != nil {
				logg.Error(ctx, "idempotency check unavailable, processing anyway", err)
			}
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, nil)
			return
		}

		start := time.Now()
		handleErr := svc.HandleEvent(ctx, &event)
		webhookMetrics.ObserveDuration(salesReceiver, string(event.Type), time.Since(start))

		if handleErr != nil {
			// Unmark so the provider's redelivery gets another attempt.
			_ = guard.Delete(ctx, event.ID)
			webhookMetrics.IncFailure(salesReceiver, string(event.Type))
			if logg != nil {
				logg.Error(ctx, "sales webhook handling failed", handleErr)
			}
			responses.WriteSuccess(w, nil)
			return
		}

		webhookMetrics.IncHandled(salesReceiver, string(event.Type))
		if logg != nil {
			logg.Info(ctx, fmt.Sprintf("stripe event %s processed", event.ID))
		}
		responses.WriteSuccess(w, nil)
	}
}
