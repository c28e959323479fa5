package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatohq/mercato-backend/pkg/enums"
)

// Payout is a scheduled future disbursement to a seller's connected account.
// A worker outside this service executes rows whose scheduled_at has passed.
type Payout struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ListingID       uuid.UUID          `gorm:"column:listing_id;type:uuid;not null;index"`
	StripeAccountID string             `gorm:"column:stripe_account_id;not null"`
	AmountCents     int64              `gorm:"column:amount_cents;not null"`
	ScheduledAt     time.Time          `gorm:"column:scheduled_at;not null"`
	Status          enums.PayoutStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}
