package domain

import "regexp"

// Upload folders, one per image-bearing entity.
const (
	FolderCategoryImages = "category_images"
	FolderColorImages    = "color_images"
	FolderVariantImages  = "product_variant_images"
	FolderReviewImages   = "review_images"
)

const (
	ReferralCodeLength   = 8
	ReferralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

const (
	MinOfferPercentage = 0
	MaxOfferPercentage = 99

	MinRating = 1
	MaxRating = 5
)

// MaxImagesPerVariant caps ProductVariantImage rows for one variant.
const MaxImagesPerVariant = 10

// SwatchSize is the edge length in pixels of a stored color swatch.
const SwatchSize = 50

// PhonePattern accepts an optional leading "+" and "1" followed by 9 to 15 digits.
const PhonePattern = `^\+?1?\d{9,15}$`

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var phoneRe = regexp.MustCompile(PhonePattern)

// ValidPhone reports whether s matches PhonePattern.
func ValidPhone(s string) bool { return phoneRe.MatchString(s) }
