package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatohq/mercato-backend/pkg/enums"
)

// Listing is a sellable reference to an underlying asset. The asset itself is
// resolved through the source_type/source_id indirection: current listings
// point straight at a user_assets row, legacy listings still point at the
// original upload.
type Listing struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID   uuid.UUID               `gorm:"column:seller_id;type:uuid;not null;index"`
	SourceType enums.ListingSourceType `gorm:"column:source_type;not null;default:'asset'"`
	SourceID   uuid.UUID               `gorm:"column:source_id;type:uuid;not null"`
	BuyerID    *uuid.UUID              `gorm:"column:buyer_id;type:uuid"`
	Status     enums.ListingStatus     `gorm:"column:status;not null;default:'active'"`
	IsActive   bool                    `gorm:"column:is_active;not null;default:true"`
	PriceCents int64                   `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
