package sellers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a seller profiles repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, userID uuid.UUID) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertAccountStatus writes the connected-account id and verification flags
// for the user, creating the profile row on first sight.
func (r *repository) UpsertAccountStatus(ctx context.Context, userID uuid.UUID, accountID string, verified bool) error {
	updates := map[string]any{
		"stripe_account_id": accountID,
		"stripe_verified":   verified,
		"is_seller":         verified,
	}

	res := r.db.WithContext(ctx).
		Model(&models.SellerProfile{}).
		Where("id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	profile := &models.SellerProfile{
		ID:              userID,
		StripeAccountID: &accountID,
		StripeVerified:  verified,
		IsSeller:        verified,
	}
	err := r.db.WithContext(ctx).Create(profile).Error
	if err == nil {
		return nil
	}
	// Lost the race to a concurrent upsert for the same user.
	var existing models.SellerProfile
	if ferr := r.db.WithContext(ctx).Where("id = ?", userID).First(&existing).Error; ferr == nil {
		return r.db.WithContext(ctx).
			Model(&models.SellerProfile{}).
			Where("id = ?", userID).
			Updates(updates).Error
	} else if !errors.Is(ferr, gorm.ErrRecordNotFound) {
		return ferr
	}
	return err
}

// UpdateByAccountID refreshes verification flags for any profile already
// holding the connected-account id, covering events without user metadata.
func (r *repository) UpdateByAccountID(ctx context.Context, accountID string, verified bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerProfile{}).
		Where("stripe_account_id = ?", accountID).
		Updates(map[string]any{
			"stripe_verified": verified,
			"is_seller":       verified,
		})
	return res.RowsAffected, res.Error
}
