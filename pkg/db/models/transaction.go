package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatohq/mercato-backend/pkg/enums"
)

// Transaction tracks payment progress for a listing sale. StripePaymentID is
// nullable: the row is created at checkout time and the payment-intent id may
// only be known after the provider confirms it.
type Transaction struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StripePaymentID *string                 `gorm:"column:stripe_payment_id;unique"`
	ListingID       uuid.UUID               `gorm:"column:listing_id;type:uuid;not null;index"`
	BuyerID         uuid.UUID               `gorm:"column:buyer_id;type:uuid;not null"`
	Status          enums.TransactionStatus `gorm:"column:status;not null;default:'pending'"`
	AmountCents     int64                   `gorm:"column:amount_cents;not null"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
