package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercatohq/mercato-backend/pkg/enums"
)

// UserAsset is an owned digital asset. Ownership transfer after a sale is a
// single-column update of owner_id.
type UserAsset struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID               `gorm:"column:owner_id;type:uuid;not null;index"`
	SourceType enums.ListingSourceType `gorm:"column:source_type;not null;default:'asset'"`
	SourceID   uuid.UUID               `gorm:"column:source_id;type:uuid;not null"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
