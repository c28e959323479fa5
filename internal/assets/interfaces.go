package assets

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for owned user assets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	TransferOwnerByID(ctx context.Context, assetID, newOwnerID uuid.UUID) (int64, error)
	TransferOwnerBySource(ctx context.Context, sourceType enums.ListingSourceType, sourceID, newOwnerID uuid.UUID) (int64, error)
}
