package transactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for sale transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	MarkCompletedByPaymentID(ctx context.Context, paymentID string) (int64, error)
	CompletePendingByListing(ctx context.Context, listingID, buyerID uuid.UUID, paymentID string) (int64, error)
	MarkFailedByPaymentID(ctx context.Context, paymentID string) (int64, error)
}
