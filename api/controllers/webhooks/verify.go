package webhooks

import (
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

// verifyEvent checks the payload signature against the endpoint's candidate
// secrets in order: platform first, then the connected-account secret. The
// returned error never says which secret failed, only that verification did.
func verifyEvent(payload []byte, sigHeader string, secrets pkgstripe.WebhookSecrets) (stripe.Event, error) {
	candidates := secrets.Ordered()
	if len(candidates) == 0 {
		return stripe.Event{}, pkgerrors.New(pkgerrors.CodeInternal, "no webhook secret configured")
	}

	var lastErr error
	for _, secret := range candidates {
		event, err := webhook.ConstructEvent(payload, sigHeader, secret)
		if err == nil {
			return event, nil
		}
		lastErr = err
	}
	return stripe.Event{}, pkgerrors.Wrap(pkgerrors.CodeValidation, lastErr, "signature verification failed")
}
