package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile is the single per-user row carrying payout onboarding state
// and the purchased credit balance. StripeVerified and IsSeller are derived
// from the connected account's capabilities, never set independently.
type SellerProfile struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StripeAccountID *string   `gorm:"column:stripe_account_id;unique"`
	StripeVerified  bool      `gorm:"column:stripe_verified;not null;default:false"`
	IsSeller        bool      `gorm:"column:is_seller;not null;default:false"`
	Credits         int64     `gorm:"column:credits;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
