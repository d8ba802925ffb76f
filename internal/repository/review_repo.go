package repository

import (
	"boutique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	crud[models.UserReview]
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{crud[models.UserReview]{db: db, spec: listSpec{
		search: []string{
			"user_id IN (SELECT id FROM users WHERE LOWER(username) LIKE ?)",
			"product_variant_id IN (SELECT id FROM product_variants WHERE LOWER(sku) LIKE ?)",
			"CAST(rating AS CHAR(1)) LIKE ?",
		},
		filters: map[string]filter{
			"is_verified":    {"is_verified = ?", boolFilter},
			"rating":         {"rating = ?", intFilter},
			"variant":        {"product_variant_id = ?", idFilter},
			"created_after":  {"created_at >= ?", sinceFilter},
			"created_before": {"created_at < ?", untilFilter},
		},
		order:    "created_at DESC, id DESC",
		preloads: []string{"User", "ProductVariant", "Images"},
	}}}
}

// CreateRated inserts the review with its images and refreshes the product's
// overall rating in the same transaction.
func (r *ReviewRepository) CreateRated(review *models.UserReview) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(review).Error; err != nil {
			return err
		}
		if len(review.Images) > 0 {
			for i := range review.Images {
				review.Images[i].ReviewID = review.ID
			}
			if err := tx.Create(&review.Images).Error; err != nil {
				return err
			}
		}
		return refreshRating(tx, review.ProductVariantID)
	})
}

// UpdateRated saves the review columns and refreshes the product's rating.
func (r *ReviewRepository) UpdateRated(review *models.UserReview) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(review).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.ProductVariantID)
	})
}

// DeleteRated removes the review and refreshes the product's rating.
func (r *ReviewRepository) DeleteRated(review *models.UserReview) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.UserReview{}, review.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return refreshRating(tx, review.ProductVariantID)
	})
}

// refreshRating sets overall_rating on the variant's product to the mean of
// all ratings across its variants, rounded to two places, or zero when there
// are none.
func refreshRating(tx *gorm.DB, variantID uint) error {
	var v models.ProductVariant
	if err := tx.Select("id", "product_id").First(&v, variantID).Error; err != nil {
		return notFound(err)
	}
	return refreshProductRating(tx, v.ProductID)
}

func refreshProductRating(tx *gorm.DB, productID uint) error {
	var ratings []int
	err := tx.Model(&models.UserReview{}).
		Joins("JOIN product_variants ON product_variants.id = user_reviews.product_variant_id").
		Where("product_variants.product_id = ?", productID).
		Pluck("user_reviews.rating", &ratings).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("overall_rating", models.AverageRating(ratings)).Error
}

// ListByVariant returns the variant's reviews, newest first.
func (r *ReviewRepository) ListByVariant(variantID uint, page, limit int) ([]models.UserReview, int64, error) {
	return r.List(ListQuery{
		Filters: map[string]string{"variant": uintString(variantID)},
		Page:    page,
		Limit:   limit,
	})
}

// IncrementLikes bumps the counter in SQL so concurrent votes are not lost.
func (r *ReviewRepository) IncrementLikes(id uint) error {
	return r.increment(id, "likes")
}

func (r *ReviewRepository) IncrementDislikes(id uint) error {
	return r.increment(id, "dislikes")
}

func (r *ReviewRepository) increment(id uint, column string) error {
	res := r.db.Model(&models.UserReview{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) GetImage(id uint) (*models.ReviewImage, error) {
	var img models.ReviewImage
	if err := r.db.First(&img, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}

func (r *ReviewRepository) DeleteImage(id uint) error {
	res := r.db.Delete(&models.ReviewImage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
