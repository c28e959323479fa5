package transactions

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"github.com/mercatohq/mercato-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transactions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) MarkCompletedByPaymentID(ctx context.Context, paymentID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("stripe_payment_id = ?", paymentID).
		Update("status", enums.TransactionStatusCompleted)
	return res.RowsAffected, res.Error
}

// CompletePendingByListing is the fallback for rows created before the
// payment-intent id was known: it completes the pending transaction for the
// listing/buyer pair and backfills the payment id at the same time.
func (r *repository) CompletePendingByListing(ctx context.Context, listingID, buyerID uuid.UUID, paymentID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("listing_id = ? AND buyer_id = ? AND status = ?", listingID, buyerID, enums.TransactionStatusPending).
		Updates(map[string]any{
			"status":            enums.TransactionStatusCompleted,
			"stripe_payment_id": paymentID,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkFailedByPaymentID(ctx context.Context, paymentID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("stripe_payment_id = ?", paymentID).
		Update("status", enums.TransactionStatusFailed)
	return res.RowsAffected, res.Error
}
