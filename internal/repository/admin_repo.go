package repository

import (
	"time"

	"boutique/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	PromoSubscribers int64 `json:"promo_subscribers"`
	TotalCategories  int64 `json:"total_categories"`
	TotalProducts    int64 `json:"total_products"`
	TotalVariants    int64 `json:"total_variants"`
	ActiveVariants   int64 `json:"active_variants"`
	OutOfStock       int64 `json:"out_of_stock"`
	TotalReviews     int64 `json:"total_reviews"`
	UnverifiedReview int64 `json:"unverified_reviews"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	counts := []struct {
		model any
		where string
		args  []any
		dst   *int64
	}{
		{&models.User{}, "", nil, &s.TotalUsers},
		{&models.User{}, "send_promo_mail = ?", []any{true}, &s.PromoSubscribers},
		{&models.Category{}, "", nil, &s.TotalCategories},
		{&models.Product{}, "", nil, &s.TotalProducts},
		{&models.ProductVariant{}, "", nil, &s.TotalVariants},
		{&models.ProductVariant{}, "is_active = ?", []any{true}, &s.ActiveVariants},
		{&models.ProductVariant{}, "stock_count <= ?", []any{0}, &s.OutOfStock},
		{&models.UserReview{}, "", nil, &s.TotalReviews},
		{&models.UserReview{}, "is_verified = ?", []any{false}, &s.UnverifiedReview},
	}
	for _, c := range counts {
		q := r.db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// UserSignupsByDay returns daily signup counts for the last N days.
func (r *AdminRepository) UserSignupsByDay(days int) ([]TimeSeriesPoint, error) {
	return r.byDay(&models.User{}, days)
}

// ReviewsByDay returns daily review counts for the last N days.
func (r *AdminRepository) ReviewsByDay(days int) ([]TimeSeriesPoint, error) {
	return r.byDay(&models.UserReview{}, days)
}

func (r *AdminRepository) byDay(model any, days int) ([]TimeSeriesPoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	var points []TimeSeriesPoint
	err := r.db.Model(model).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
