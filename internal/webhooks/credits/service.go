package creditswebhook

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/mercatohq/mercato-backend/internal/ledger"
	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
	"github.com/mercatohq/mercato-backend/pkg/logger"
)

const purchaseTypeCredits = "credits_purchase"

type ServiceParams struct {
	LedgerService ledger.Service
	Logger        *logger.Logger
}

// Service grants purchased credit balances after checkout completion.
type Service struct {
	ledger ledger.Service
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.LedgerService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		ledger: params.LedgerService,
		logg:   params.Logger,
	}, nil
}

// HandleEvent grants credits for completed checkout sessions tagged as
// credits purchases. Everything else is acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
	}

	if session.Metadata["purchase_type"] != purchaseTypeCredits {
		return nil
	}

	ctx = s.logg.WithField(ctx, "session_id", session.ID)

	userID, err := uuid.Parse(session.Metadata["user_id"])
	if err != nil {
		s.logg.Warn(ctx, "credits purchase without a valid user id, skipping")
		return nil
	}
	credits, err := strconv.ParseInt(session.Metadata["credits"], 10, 64)
	if err != nil || credits <= 0 {
		s.logg.Warn(ctx, "credits purchase without a positive credit count, skipping")
		return nil
	}

	// The payment-intent id is the durable idempotency key; very old sessions
	// without one fall back to the session id.
	paymentRef := session.ID
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		paymentRef = session.PaymentIntent.ID
	}

	entry, err := s.ledger.Grant(ctx, ledger.GrantInput{
		UserID:      userID,
		Credits:     credits,
		AmountCents: session.AmountTotal,
		PaymentRef:  paymentRef,
		Reason:      purchaseTypeCredits,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant credits")
	}
	if entry == nil {
		s.logg.Info(ctx, "credits already granted for payment, skipping")
		return nil
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id": userID,
		"credits": credits,
	}), "credits granted")
	return nil
}
