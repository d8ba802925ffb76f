package models

import (
	"errors"
	"sort"
	"time"

	"boutique/internal/domain"
	"boutique/internal/slugs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrBasePriceMissing is returned when an offer price is requested for a
	// product that has no base price.
	ErrBasePriceMissing = errors.New("product has no base price")
	// ErrOfferOutOfRange is returned for offer percentages outside 0..99.
	ErrOfferOutOfRange = errors.New("offer percentage must be between 0 and 99")
)

var hundred = decimal.NewFromInt(100)

// Product is a SKU family; its purchasable units are ProductVariants.
// Taxonomy references are RESTRICT: a referenced term cannot be deleted.
type Product struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	Name           string              `gorm:"size:255;not null;index" json:"name"`
	Description    string              `gorm:"type:text;not null" json:"description"`
	BasePrice      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"base_price"`
	OverallRating  decimal.Decimal     `gorm:"type:decimal(3,2);not null;default:0" json:"overall_rating"`
	Exclusive      bool                `gorm:"not null" json:"exclusive"`
	ReturnPolicy   string              `gorm:"size:255;not null" json:"return_policy"`
	ExchangePolicy string              `gorm:"size:255;not null" json:"exchange_policy"`
	PayOnDelivery  bool                `gorm:"not null" json:"pay_on_delivery"`
	PatternID      uint                `gorm:"not null;index" json:"pattern_id"`
	Pattern        *Pattern            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"pattern,omitempty"`
	FabricID       uint                `gorm:"not null;index" json:"fabric_id"`
	Fabric         *Fabric             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"fabric,omitempty"`
	ShapeID        uint                `gorm:"not null;index" json:"shape_id"`
	Shape          *Shape              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"shape,omitempty"`
	LengthID       uint                `gorm:"not null;index" json:"length_id"`
	Length         *Length             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"length,omitempty"`
	NeckID         uint                `gorm:"not null;index" json:"neck_id"`
	Neck           *Neck               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"neck,omitempty"`
	SleeveLengthID uint                `gorm:"not null;index" json:"sleeve_length_id"`
	SleeveLength   *SleeveLength       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"sleeve_length,omitempty"`
	Instructions   *string             `gorm:"type:text" json:"instructions"`
	WashCare       *string             `gorm:"type:text" json:"wash_care"`
	QualityChecked bool                `gorm:"not null" json:"quality_checked"`
	Slug           string              `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Categories     []Category          `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Variants       []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt      time.Time           `json:"created"`
	UpdatedAt      time.Time           `json:"modified"`
}

// BeforeSave derives the slug from the product name when none is set.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug != "" {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	base := slugs.Make(p.Name)
	if base == "" {
		base = "product"
	}
	s, err := slugs.Unique(base, func(candidate string) (bool, error) {
		var n int64
		err := db.Model(&Product{}).Where("slug = ? AND id <> ?", candidate, p.ID).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return err
	}
	p.Slug = s
	return nil
}

// ProductVariant is a concrete purchasable configuration of a Product.
// (product, variant_name, size) is unique.
type ProductVariant struct {
	ID              uint                   `gorm:"primaryKey" json:"id"`
	ProductID       uint                   `gorm:"not null;uniqueIndex:idx_variant_product_name_size,priority:1" json:"product_id"`
	Product         *Product               `json:"product,omitempty"`
	VariantName     string                 `gorm:"size:100;not null;uniqueIndex:idx_variant_product_name_size,priority:2" json:"variant_name"`
	Colors          []Color                `gorm:"many2many:product_variant_colors;constraint:OnDelete:CASCADE" json:"colors,omitempty"`
	SizeID          *uint                  `gorm:"uniqueIndex:idx_variant_product_name_size,priority:3" json:"size_id"`
	Size            *Size                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"size,omitempty"`
	OfferPercentage int                    `gorm:"not null;default:0;check:chk_product_variants_offer,offer_percentage >= 0 AND offer_percentage <= 99" json:"offer_percentage"`
	StockCount      int                    `gorm:"not null" json:"stock_count"`
	SKU             string                 `gorm:"column:sku;uniqueIndex;size:100;not null" json:"sku"`
	Slug            string                 `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	IsActive        bool                   `gorm:"not null;index" json:"is_active"`
	Images          []ProductVariantImage  `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	SizeAttributes  []ProductSizeAttribute `gorm:"foreignKey:ProductVariantID;constraint:OnDelete:CASCADE" json:"size_attributes,omitempty"`
	Reviews         []UserReview           `gorm:"foreignKey:ProductVariantID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time              `json:"created"`
	UpdatedAt       time.Time              `json:"modified"`
}

// ApplyOffer returns base × (100 − pct) / 100 without leaving decimal arithmetic.
func ApplyOffer(base decimal.NullDecimal, pct int) (decimal.Decimal, error) {
	if !base.Valid {
		return decimal.Decimal{}, ErrBasePriceMissing
	}
	if pct < domain.MinOfferPercentage || pct > domain.MaxOfferPercentage {
		return decimal.Decimal{}, ErrOfferOutOfRange
	}
	return base.Decimal.Mul(hundred.Sub(decimal.NewFromInt(int64(pct)))).Div(hundred), nil
}

// OfferPrice applies the variant's offer to its product's base price. Product
// must be loaded.
func (v *ProductVariant) OfferPrice() (decimal.Decimal, error) {
	if v.Product == nil {
		return decimal.Decimal{}, ErrBasePriceMissing
	}
	return ApplyOffer(v.Product.BasePrice, v.OfferPercentage)
}

// VariantSlugSource is the text a variant slug is derived from.
func VariantSlugSource(variantName, sizeName string) string {
	if sizeName == "" {
		return variantName
	}
	return variantName + " - " + sizeName
}

// BeforeSave derives a unique slug from the variant name and size name.
func (v *ProductVariant) BeforeSave(tx *gorm.DB) error {
	if v.Slug != "" {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	sizeName := ""
	switch {
	case v.Size != nil:
		sizeName = v.Size.Name
	case v.SizeID != nil:
		var size Size
		if err := db.Select("name").First(&size, *v.SizeID).Error; err != nil {
			return err
		}
		sizeName = size.Name
	}
	base := slugs.Make(VariantSlugSource(v.VariantName, sizeName))
	if base == "" {
		base = "variant"
	}
	s, err := slugs.Unique(base, func(candidate string) (bool, error) {
		var n int64
		err := db.Model(&ProductVariant{}).Where("slug = ? AND id <> ?", candidate, v.ID).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return err
	}
	v.Slug = s
	return nil
}

// SortVariants puts variants in their default order: variants without a size
// first, then by size name, then by id.
func SortVariants(vs []ProductVariant) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		an, bn := a.Size != nil, b.Size != nil
		if an != bn {
			return !an
		}
		if an && a.Size.Name != b.Size.Name {
			return a.Size.Name < b.Size.Name
		}
		return a.ID < b.ID
	})
}

// ProductVariantImage is one picture of a variant; at most one per variant is
// primary, which service.StoreService keeps true on every write.
type ProductVariantImage struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	VariantID uint            `gorm:"not null;index" json:"variant_id"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	Image     string          `gorm:"size:255;not null" json:"image"`
	ImageURL  string          `gorm:"size:512" json:"image_url"`
	IsPrimary bool            `gorm:"not null;index" json:"is_primary"`
	CreatedAt time.Time       `json:"created"`
	UpdatedAt time.Time       `json:"modified"`
}

// ProductSizeAttribute records one measurement of one size of a variant.
type ProductSizeAttribute struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	SizeID           uint            `gorm:"not null;index" json:"size_id"`
	Size             *Size           `gorm:"constraint:OnDelete:CASCADE" json:"size,omitempty"`
	ProductVariantID uint            `gorm:"not null;index" json:"product_variant_id"`
	ProductVariant   *ProductVariant `json:"product_variant,omitempty"`
	AttributeID      uint            `gorm:"not null;index" json:"attribute_id"`
	Attribute        *SizeAttribute  `gorm:"constraint:OnDelete:CASCADE" json:"attribute,omitempty"`
	Centimeter       float64         `gorm:"not null" json:"centimeter"`
	Inch             string          `gorm:"size:20;not null" json:"inch"`
	CreatedAt        time.Time       `json:"created"`
	UpdatedAt        time.Time       `json:"modified"`
}
