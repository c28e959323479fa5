package enums

import "fmt"

// ListingSourceType identifies which asset table a listing points at.
// Listings created before the user_assets consolidation still reference
// their upload row through the uploaded_image mapping.
type ListingSourceType string

const (
	ListingSourceTypeAsset         ListingSourceType = "asset"
	ListingSourceTypeUploadedImage ListingSourceType = "uploaded_image"
)

var validListingSourceTypes = []ListingSourceType{
	ListingSourceTypeAsset,
	ListingSourceTypeUploadedImage,
}

// String implements fmt.Stringer.
func (l ListingSourceType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingSourceType.
func (l ListingSourceType) IsValid() bool {
	for _, candidate := range validListingSourceTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingSourceType converts raw input into a ListingSourceType.
func ParseListingSourceType(value string) (ListingSourceType, error) {
	for _, candidate := range validListingSourceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing source type %q", value)
}
