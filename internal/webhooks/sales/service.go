package saleswebhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/mercatohq/mercato-backend/internal/assets"
	"github.com/mercatohq/mercato-backend/internal/listings"
	"github.com/mercatohq/mercato-backend/internal/payouts"
	"github.com/mercatohq/mercato-backend/internal/sellers"
	"github.com/mercatohq/mercato-backend/internal/transactions"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"github.com/mercatohq/mercato-backend/pkg/enums"
	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
	"github.com/mercatohq/mercato-backend/pkg/logger"
)

const defaultPayoutDelay = 10 * time.Minute

type ServiceParams struct {
	ListingRepo     listings.Repository
	AssetRepo       assets.Repository
	TransactionRepo transactions.Repository
	PayoutRepo      payouts.Repository
	SellerRepo      sellers.Repository
	StripeClient    StripeSalesClient
	Logger          *logger.Logger
	PayoutDelay     time.Duration
}

// Service finalizes asset sales from Stripe events: settlement, reversal,
// and connected-account readiness.
type Service struct {
	listingRepo     listings.Repository
	assetRepo       assets.Repository
	transactionRepo transactions.Repository
	payoutRepo      payouts.Repository
	sellerRepo      sellers.Repository
	stripe          StripeSalesClient
	logg            *logger.Logger
	payoutDelay     time.Duration
	now             func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.ListingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "listing repo required")
	}
	if params.AssetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "asset repo required")
	}
	if params.TransactionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction repo required")
	}
	if params.PayoutRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payout repo required")
	}
	if params.SellerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "seller repo required")
	}
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	delay := params.PayoutDelay
	if delay <= 0 {
		delay = defaultPayoutDelay
	}
	return &Service{
		listingRepo:     params.ListingRepo,
		assetRepo:       params.AssetRepo,
		transactionRepo: params.TransactionRepo,
		payoutRepo:      params.PayoutRepo,
		sellerRepo:      params.SellerRepo,
		stripe:          params.StripeClient,
		logg:            params.Logger,
		payoutDelay:     delay,
		now:             time.Now,
	}, nil
}

// HandleEvent dispatches a verified event to at most one handler. Unknown
// event types are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.settle(ctx, intent.ID)

	case stripe.EventTypePaymentIntentPaymentFailed,
		stripe.EventTypePaymentIntentCanceled:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
		}
		return s.reverse(ctx, intent.ID, intent.Metadata)

	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		paymentID := session.ID
		if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
			paymentID = session.PaymentIntent.ID
		}
		return s.reverse(ctx, paymentID, session.Metadata)

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode charge event")
		}
		paymentID := ""
		if charge.PaymentIntent != nil {
			paymentID = charge.PaymentIntent.ID
		}
		return s.reverse(ctx, paymentID, charge.Metadata)

	case stripe.EventTypeAccountUpdated:
		var acct stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &acct); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode account event")
		}
		return s.accountReadiness(ctx, &acct)

	case stripe.EventTypeCapabilityUpdated:
		var capability stripe.Capability
		if err := json.Unmarshal(event.Data.Raw, &capability); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode capability event")
		}
		accountID := event.Account
		if capability.Account != nil && capability.Account.ID != "" {
			accountID = capability.Account.ID
		}
		return s.refreshAccountReadiness(ctx, accountID)

	case stripe.EventTypeAccountApplicationAuthorized:
		return s.refreshAccountReadiness(ctx, event.Account)

	default:
		return nil
	}
}

// settle re-fetches the payment's canonical status before acting: the event
// snapshot may be stale relative to a near-simultaneous update. Each write
// below is independently fault-tolerant so a failed step never blocks the
// rest; failures are collected for the caller to log.
func (s *Service) settle(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		s.logg.Warn(ctx, "settlement event without payment id")
		return nil
	}

	ctx = s.logg.WithField(ctx, "payment_id", paymentID)

	intent, err := s.stripe.GetPaymentIntent(ctx, paymentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch payment intent")
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		s.logg.Info(s.logg.WithField(ctx, "live_status", string(intent.Status)),
			"payment not succeeded on re-fetch, skipping settlement")
		return nil
	}

	meta, err := ParseSaleMetadata(intent.Metadata)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()),
			"settlement metadata missing or malformed, skipping")
		return nil
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"listing_id": meta.ListingID,
		"buyer_id":   meta.BuyerID,
	})

	var stepErrs []error

	if err := s.completeTransaction(ctx, paymentID, meta); err != nil {
		s.logg.Error(ctx, "complete transaction", err)
		stepErrs = append(stepErrs, err)
	}

	if err := s.listingRepo.MarkSold(ctx, meta.ListingID, meta.BuyerID); err != nil {
		s.logg.Error(ctx, "mark listing sold", err)
		stepErrs = append(stepErrs, err)
	}

	if err := s.transferAsset(ctx, meta.ListingID, meta.BuyerID); err != nil {
		s.logg.Error(ctx, "transfer asset ownership", err)
		stepErrs = append(stepErrs, err)
	}

	net := intent.AmountReceived - intent.ApplicationFeeAmount
	if net < 0 {
		net = 0
	}
	if err := s.queuePayout(ctx, meta.ListingID, meta.SellerID, net); err != nil {
		s.logg.Error(ctx, "queue payout", err)
		stepErrs = append(stepErrs, err)
	}

	return errors.Join(stepErrs...)
}

// completeTransaction matches by payment id first; rows created before the
// payment id was known are completed through the (listing, buyer, pending)
// fallback, which also backfills the payment id.
func (s *Service) completeTransaction(ctx context.Context, paymentID string, meta *SaleMetadata) error {
	affected, err := s.transactionRepo.MarkCompletedByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	affected, err = s.transactionRepo.CompletePendingByListing(ctx, meta.ListingID, meta.BuyerID, paymentID)
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logg.Warn(ctx, "no transaction matched settlement")
	}
	return nil
}

func (s *Service) transferAsset(ctx context.Context, listingID, buyerID uuid.UUID) error {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}

	var affected int64
	switch listing.SourceType {
	case enums.ListingSourceTypeAsset:
		affected, err = s.assetRepo.TransferOwnerByID(ctx, listing.SourceID, buyerID)
	default:
		affected, err = s.assetRepo.TransferOwnerBySource(ctx, listing.SourceType, listing.SourceID, buyerID)
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		s.logg.Warn(ctx, "no asset matched ownership transfer")
	}
	return nil
}

func (s *Service) queuePayout(ctx context.Context, listingID uuid.UUID, sellerID *uuid.UUID, netCents int64) error {
	if sellerID == nil {
		s.logg.Info(ctx, "no seller id on payment, skipping payout")
		return nil
	}
	if netCents <= 0 {
		s.logg.Info(ctx, "non-positive net amount, skipping payout")
		return nil
	}

	seller, err := s.sellerRepo.FindByID(ctx, *sellerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Warn(ctx, "seller profile not found, skipping payout")
		return nil
	}
	if err != nil {
		return err
	}
	if seller.StripeAccountID == nil || *seller.StripeAccountID == "" {
		s.logg.Info(ctx, "seller has no payout account, skipping payout")
		return nil
	}

	_, err = s.payoutRepo.Create(ctx, &models.Payout{
		ListingID:       listingID,
		StripeAccountID: *seller.StripeAccountID,
		AmountCents:     netCents,
		ScheduledAt:     s.now().Add(s.payoutDelay),
		Status:          enums.PayoutStatusPending,
	})
	return err
}

// reverse marks the transaction failed and, when the payload identifies the
// listing/buyer pair, releases the listing. The release only applies while
// the listing's buyer still matches, so a late failure event cannot undo a
// newer sale to someone else.
func (s *Service) reverse(ctx context.Context, paymentID string, metadata map[string]string) error {
	if paymentID == "" {
		s.logg.Warn(ctx, "reversal event without payment id")
		return nil
	}

	ctx = s.logg.WithField(ctx, "payment_id", paymentID)

	var stepErrs []error

	affected, err := s.transactionRepo.MarkFailedByPaymentID(ctx, paymentID)
	if err != nil {
		s.logg.Error(ctx, "mark transaction failed", err)
		stepErrs = append(stepErrs, err)
	} else if affected == 0 {
		s.logg.Info(ctx, "no transaction matched reversal")
	}

	if listingID, buyerID, ok := reversalTarget(metadata); ok {
		released, err := s.listingRepo.Release(ctx, listingID, buyerID)
		if err != nil {
			s.logg.Error(ctx, "release listing", err)
			stepErrs = append(stepErrs, err)
		} else if released == 0 {
			s.logg.Info(s.logg.WithField(ctx, "listing_id", listingID),
				"listing buyer changed since reservation, leaving as is")
		}
	}

	return errors.Join(stepErrs...)
}

// accountReadiness derives the verification flag from the account's live
// capabilities. Verified means charges enabled, payouts enabled, and nothing
// currently due.
func (s *Service) accountReadiness(ctx context.Context, acct *stripe.Account) error {
	if acct == nil || acct.ID == "" {
		s.logg.Warn(ctx, "account event without account id")
		return nil
	}

	verified := acct.ChargesEnabled && acct.PayoutsEnabled &&
		(acct.Requirements == nil || len(acct.Requirements.CurrentlyDue) == 0)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"account_id": acct.ID,
		"verified":   verified,
	})

	var stepErrs []error

	if rawUserID, ok := acct.Metadata["user_id"]; ok {
		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			s.logg.Warn(ctx, "account metadata user_id is not a uuid")
		} else if err := s.sellerRepo.UpsertAccountStatus(ctx, userID, acct.ID, verified); err != nil {
			s.logg.Error(ctx, "upsert seller profile", err)
			stepErrs = append(stepErrs, err)
		}
	}

	// Covers re-notification after the initial link, where metadata may be gone.
	if _, err := s.sellerRepo.UpdateByAccountID(ctx, acct.ID, verified); err != nil {
		s.logg.Error(ctx, "update seller profile by account id", err)
		stepErrs = append(stepErrs, err)
	}

	return errors.Join(stepErrs...)
}

// refreshAccountReadiness handles events whose payload is not the account
// object itself by fetching the account's live state first.
func (s *Service) refreshAccountReadiness(ctx context.Context, accountID string) error {
	if accountID == "" {
		s.logg.Warn(ctx, "account readiness event without account id")
		return nil
	}
	acct, err := s.stripe.GetAccount(ctx, accountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch stripe account")
	}
	return s.accountReadiness(ctx, acct)
}
