package saleswebhook

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseSaleMetadata(t *testing.T) {
	listingID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	meta, err := ParseSaleMetadata(map[string]string{
		"listing_id": listingID.String(),
		"buyer_id":   buyerID.String(),
		"seller_id":  sellerID.String(),
	})
	if err != nil {
		t.Fatalf("ParseSaleMetadata error: %v", err)
	}
	if meta.ListingID != listingID || meta.BuyerID != buyerID {
		t.Fatalf("unexpected parse result %+v", meta)
	}
	if meta.SellerID == nil || *meta.SellerID != sellerID {
		t.Fatalf("expected seller id %s, got %v", sellerID, meta.SellerID)
	}
}

func TestParseSaleMetadataSellerOptional(t *testing.T) {
	meta, err := ParseSaleMetadata(map[string]string{
		"listing_id": uuid.NewString(),
		"buyer_id":   uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("ParseSaleMetadata error: %v", err)
	}
	if meta.SellerID != nil {
		t.Fatal("expected nil seller id")
	}
}

func TestParseSaleMetadataRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		metadata map[string]string
	}{
		{"empty", map[string]string{}},
		{"missing buyer", map[string]string{"listing_id": uuid.NewString()}},
		{"missing listing", map[string]string{"buyer_id": uuid.NewString()}},
		{"malformed listing", map[string]string{"listing_id": "not-a-uuid", "buyer_id": uuid.NewString()}},
		{"malformed seller", map[string]string{
			"listing_id": uuid.NewString(),
			"buyer_id":   uuid.NewString(),
			"seller_id":  "not-a-uuid",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSaleMetadata(tc.metadata); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestReversalTarget(t *testing.T) {
	listingID := uuid.New()
	buyerID := uuid.New()

	gotListing, gotBuyer, ok := reversalTarget(map[string]string{
		"listing_id": listingID.String(),
		"buyer_id":   buyerID.String(),
	})
	if !ok || gotListing != listingID || gotBuyer != buyerID {
		t.Fatalf("unexpected target %v %v %v", gotListing, gotBuyer, ok)
	}

	if _, _, ok := reversalTarget(map[string]string{"listing_id": listingID.String()}); ok {
		t.Fatal("missing buyer id must not produce a target")
	}
	if _, _, ok := reversalTarget(nil); ok {
		t.Fatal("nil metadata must not produce a target")
	}
}
