package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"github.com/mercatohq/mercato-backend/pkg/logger"
)

// Service defines operations that grant purchased credits.
type Service interface {
	Grant(ctx context.Context, input GrantInput) (*models.CreditLedgerEntry, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// GrantInput captures a single credit purchase settlement. PaymentRef is the
// idempotency key: one ledger entry and one balance bump per payment.
type GrantInput struct {
	UserID      uuid.UUID
	Credits     int64
	AmountCents int64
	PaymentRef  string
	Reason      string
}

// NewService wires a credit ledger service with the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Grant appends a ledger entry for the payment and bumps the user's balance.
// A duplicate payment reference means the grant already happened: the unique
// key on payment_intent rejects the insert and the balance is left alone.
func (s *service) Grant(ctx context.Context, input GrantInput) (*models.CreditLedgerEntry, error) {
	if input.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if input.Credits <= 0 {
		return nil, fmt.Errorf("credits must be positive, got %d", input.Credits)
	}
	if input.PaymentRef == "" {
		return nil, fmt.Errorf("payment reference is required")
	}

	reason := input.Reason
	if reason == "" {
		reason = "credits_purchase"
	}

	entry := &models.CreditLedgerEntry{
		UserID:        input.UserID,
		PaymentIntent: input.PaymentRef,
		AmountCents:   input.AmountCents,
		Credits:       input.Credits,
		Reason:        reason,
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		if db.IsUniqueViolation(err, "") {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"user_id":     input.UserID,
				"payment_ref": input.PaymentRef,
			}), "credit grant already recorded, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("recording credit ledger entry: %w", err)
	}

	// Read-then-write balance update. Grants for one user arrive one payment
	// at a time through the webhook, so the window is acceptable; the ledger
	// remains the source of truth for reconciliation.
	current, _, err := s.repo.GetCredits(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("reading credit balance: %w", err)
	}
	if err := s.repo.UpsertCredits(ctx, input.UserID, current+input.Credits); err != nil {
		return nil, fmt.Errorf("updating credit balance: %w", err)
	}

	return entry, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("user id is required")
	}
	balance, _, err := s.repo.GetCredits(ctx, userID)
	return balance, err
}
