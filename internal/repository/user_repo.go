package repository

import (
	"time"

	"boutique/internal/models"

	"gorm.io/gorm"
)

var userList = listSpec{
	search: []string{
		"LOWER(username) LIKE ?",
		"LOWER(email) LIKE ?",
		"LOWER(phone_number) LIKE ?",
		"LOWER(referral_code) LIKE ?",
	},
	filters: map[string]filter{
		"is_staff":           {"is_staff = ?", boolFilter},
		"is_active":          {"is_active = ?", boolFilter},
		"send_promo_mail":    {"send_promo_mail = ?", boolFilter},
		"first_order_placed": {"first_order_placed = ?", boolFilter},
	},
	order: "created_at DESC, id DESC",
}

type UserRepository struct {
	crud[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{crud[models.User]{db: db, spec: userList}}
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email", email)
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username", username)
}

func (r *UserRepository) GetByPhone(phone string) (*models.User, error) {
	return r.getBy("phone_number", phone)
}

// GetByLogin accepts either a username or an email address.
func (r *UserRepository) GetByLogin(login string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) getBy(column, value string) (*models.User, error) {
	var u models.User
	err := r.db.Where(column+" = ?", value).First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Taken reports whether column already holds value on a user other than excludeID.
func (r *UserRepository) Taken(column, value string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// PromoRecipients returns active users who opted in to promotional mail.
func (r *UserRepository) PromoRecipients() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_active = ? AND send_promo_mail = ?", true, true).
		Order("id").
		Find(&users).Error
	return users, err
}

// DeleteRated removes the user together with their reviews and refreshes the
// overall rating of every product they had reviewed.
func (r *UserRepository) DeleteRated(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var productIDs []uint
		err := tx.Model(&models.UserReview{}).
			Joins("JOIN product_variants ON product_variants.id = user_reviews.product_variant_id").
			Where("user_reviews.user_id = ?", id).
			Distinct().
			Pluck("product_variants.product_id", &productIDs).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserReview{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		for _, pid := range productIDs {
			if err := refreshProductRating(tx, pid); err != nil {
				return err
			}
		}
		return nil
	})
}
