package saleswebhook

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/account"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgstripe "github.com/mercatohq/mercato-backend/pkg/stripe"
)

// StripeSalesClient exposes the subset of Stripe reads the sale receiver
// needs: re-fetching canonical payment state and connected-account state.
type StripeSalesClient interface {
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	GetAccount(ctx context.Context, id string) (*stripe.Account, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the provided Stripe client so the sale receiver can be tested.
func NewStripeClient(api *pkgstripe.Client) StripeSalesClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return paymentintent.Get(id, params)
}

func (w *stripeClientWrapper) GetAccount(ctx context.Context, id string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	return account.GetByID(id, params)
}
