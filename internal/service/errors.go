package service

import (
	"errors"

	"boutique/internal/models"
	"boutique/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = repository.ErrNotFound
	ErrProtected        = repository.ErrProtected
	ErrDuplicate        = errors.New("a record with these values already exists")
	ErrEmailExists      = errors.New("email already registered")
	ErrUsernameExists   = errors.New("username already taken")
	ErrPhoneExists      = errors.New("phone number already registered")
	ErrInvalidPhone     = errors.New("phone number must be entered in the format '+999999999', up to 15 digits")
	ErrInvalidCreds     = errors.New("invalid username or password")
	ErrInactive         = errors.New("account is disabled")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrMissingFields    = errors.New("missing required fields")
	ErrVariantExists    = errors.New("variant with this name and size already exists for the product")
	ErrImageLimit       = errors.New("a variant can have at most 10 images")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidHex       = errors.New("hex value must look like #RRGGBB")
	ErrImageRequired    = errors.New("image is required")
	ErrCategoryCycle    = errors.New("a category cannot be its own ancestor")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInvalidPrice     = errors.New("base price must be between 0 and 99999999.99")
	ErrInvalidStock     = errors.New("stock count cannot be negative")
	ErrNoImages         = errors.New("no images selected")
	ErrBasePriceMissing = models.ErrBasePriceMissing
	ErrOfferOutOfRange  = models.ErrOfferOutOfRange
)

// duplicate maps constraint violations reported by the database to service
// errors.
func duplicate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	}
	return err
}
