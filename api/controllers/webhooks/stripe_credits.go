package webhooks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mercatohq/mercato-backend/api/responses"
	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
	"github.com/mercatohq/mercato-backend/pkg/logger"
	"github.com/mercatohq/mercato-backend/pkg/metrics"
	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

// StripeCreditsWebhook handles credit-purchase checkout completions. The
// acknowledgment is written before handling starts: granting detaches from
// the request so a slow database write cannot hold the provider's delivery
// open, and its errors are caught at the goroutine boundary.
func StripeCreditsWebhook(
	svc StripeWebhookService,
	secrets pkgstripe.WebhookSecrets,
	webhookMetrics *metrics.WebhookMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			webhookMetrics.IncRejected(creditsReceiver)
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := verifyEvent(payload, sigHeader, secrets)
		if err != nil {
			webhookMetrics.IncRejected(creditsReceiver)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithEventID(ctx, event.ID)
			ctx = logg.WithEventType(ctx, string(event.Type))
		}

		responses.WriteSuccess(w, nil)

		// Keep logger fields, drop the request's cancellation.
		detached := context.WithoutCancel(ctx)
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					webhookMetrics.IncFailure(creditsReceiver, string(event.Type))
					if logg != nil {
						logg.Error(detached, "credits webhook handler panicked", fmt.Errorf("panic: %v", rec))
					}
				}
			}()

			start := time.Now()
			if err := svc.HandleEvent(detached, &event); err != nil {
				webhookMetrics.IncFailure(creditsReceiver, string(event.Type))
				if logg != nil {
					logg.Error(detached, "credits webhook handling failed", err)
				}
				return
			}
			webhookMetrics.ObserveDuration(creditsReceiver, string(event.Type), time.Since(start))
			webhookMetrics.IncHandled(creditsReceiver, string(event.Type))
		}()
	}
}
