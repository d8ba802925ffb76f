package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserReview struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"not null;index" json:"user_id"`
	User             *User           `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ProductVariantID uint            `gorm:"not null;index" json:"product_variant_id"`
	ProductVariant   *ProductVariant `json:"product_variant,omitempty"`
	Rating           uint8           `gorm:"not null;index;check:chk_user_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText       *string         `gorm:"type:text" json:"review_text"`
	Likes            uint            `gorm:"not null;default:0" json:"likes"`
	Dislikes         uint            `gorm:"not null;default:0" json:"dislikes"`
	IsVerified       bool            `gorm:"not null;index" json:"is_verified"`
	Images           []ReviewImage   `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt        time.Time       `gorm:"index" json:"created"`
	UpdatedAt        time.Time       `json:"modified"`
}

type ReviewImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	Image     string    `gorm:"size:255;not null" json:"image"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

// AverageRating is the mean of ratings rounded to two decimal places; zero for
// no ratings.
func AverageRating(ratings []int) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
}
