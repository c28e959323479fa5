package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercatohq/mercato-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for credit ledger entries and the
// per-user credit balance.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEntry(ctx context.Context, entry *models.CreditLedgerEntry) error
	GetCredits(ctx context.Context, userID uuid.UUID) (int64, bool, error)
	UpsertCredits(ctx context.Context, userID uuid.UUID, credits int64) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.CreditLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.CreditLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetCredits returns the current balance and whether a profile row exists.
func (r *repository) GetCredits(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	var profile models.SellerProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return profile.Credits, true, nil
}

func (r *repository) UpsertCredits(ctx context.Context, userID uuid.UUID, credits int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.SellerProfile{}).
		Where("id = ?", userID).
		Update("credits", credits)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.SellerProfile{
		ID:      userID,
		Credits: credits,
	}).Error
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.CreditLedgerEntry, error) {
	var entries []models.CreditLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
