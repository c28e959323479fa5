package payouts

import (
	"context"

	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for scheduled seller payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payout *models.Payout) (*models.Payout, error)
}
