package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditLedgerEntry is an append-only record proving a credit grant occurred
// for a given payment reference. The unique key on payment_intent is what
// makes duplicate webhook deliveries idempotent.
type CreditLedgerEntry struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	PaymentIntent string    `gorm:"column:payment_intent;not null;unique"`
	AmountCents   int64     `gorm:"column:amount_cents;not null"`
	Credits       int64     `gorm:"column:credits;not null"`
	Reason        string    `gorm:"column:reason;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
