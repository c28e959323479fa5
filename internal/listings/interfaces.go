package listings

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for marketplace listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	MarkSold(ctx context.Context, listingID, buyerID uuid.UUID) error
	Release(ctx context.Context, listingID, buyerID uuid.UUID) (int64, error)
}
