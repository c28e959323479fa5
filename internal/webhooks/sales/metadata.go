package saleswebhook

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	pkgerrors "github.com/mercatohq/mercato-backend/pkg/errors"
)

var validate = validator.New()

// SaleMetadata is the typed view of the key-value metadata a payment carries.
// SellerID is optional; its absence only disables payout queuing.
type SaleMetadata struct {
	ListingID uuid.UUID
	BuyerID   uuid.UUID
	SellerID  *uuid.UUID
}

type rawSaleMetadata struct {
	ListingID string `validate:"required,uuid"`
	BuyerID   string `validate:"required,uuid"`
	SellerID  string `validate:"omitempty,uuid"`
}

// ParseSaleMetadata validates and converts payment metadata. A missing or
// malformed required field is a validation error, never a panic.
func ParseSaleMetadata(metadata map[string]string) (*SaleMetadata, error) {
	raw := rawSaleMetadata{
		ListingID: metadata["listing_id"],
		BuyerID:   metadata["buyer_id"],
		SellerID:  metadata["seller_id"],
	}
	if err := validate.Struct(raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale metadata")
	}

	listingID, err := uuid.Parse(raw.ListingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id")
	}
	buyerID, err := uuid.Parse(raw.BuyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer id")
	}

	parsed := &SaleMetadata{
		ListingID: listingID,
		BuyerID:   buyerID,
	}
	if raw.SellerID != "" {
		sellerID, err := uuid.Parse(raw.SellerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seller id")
		}
		parsed.SellerID = &sellerID
	}
	return parsed, nil
}

// reversalTarget extracts the optional listing/buyer pair a reversal needs.
// Both must be present and well-formed for the listing release to run.
func reversalTarget(metadata map[string]string) (listingID, buyerID uuid.UUID, ok bool) {
	listingID, lerr := uuid.Parse(metadata["listing_id"])
	buyerID, berr := uuid.Parse(metadata["buyer_id"])
	if lerr != nil || berr != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return listingID, buyerID, true
}
