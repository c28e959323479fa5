package assets

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

// NewRepository builds an assets repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) TransferOwnerByID(ctx context.Context, assetID, newOwnerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserAsset{}).
		Where("id = ?", assetID).
		Update("owner_id", newOwnerID)
	return res.RowsAffected, res.Error
}

// TransferOwnerBySource reassigns ownership for listings that still reference
// the original upload rather than a user_assets row.
func (r *repository) TransferOwnerBySource(ctx context.Context, sourceType enums.ListingSourceType, sourceID, newOwnerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserAsset{}).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Update("owner_id", newOwnerID)
	return res.RowsAffected, res.Error
}
