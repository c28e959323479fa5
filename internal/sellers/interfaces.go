package sellers

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for seller profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, userID uuid.UUID) (*models.SellerProfile, error)
	UpsertAccountStatus(ctx context.Context, userID uuid.UUID, accountID string, verified bool) error
	UpdateByAccountID(ctx context.Context, accountID string, verified bool) (int64, error)
}
