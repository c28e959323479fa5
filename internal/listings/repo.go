package listings

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

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) MarkSold(ctx context.Context, listingID, buyerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listingID).
		Updates(map[string]any{
			"status":    enums.ListingStatusSold,
			"is_active": false,
			"buyer_id":  buyerID,
		}).Error
}

// Release re-opens a sold listing, but only while buyer_id still matches the
// reversed payment's buyer. A listing already re-sold to someone else is left
// untouched.
func (r *repository) Release(ctx context.Context, listingID, buyerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ? AND buyer_id = ?", listingID, buyerID).
		Updates(map[string]any{
			"status":    enums.ListingStatusActive,
			"is_active": true,
			"buyer_id":  nil,
		})
	return res.RowsAffected, res.Error
}
