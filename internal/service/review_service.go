package service

import (
	"context"
	"log"
	"strings"

	"boutique/internal/domain"
	"boutique/internal/models"
	"boutique/internal/repository"
	"boutique/pkg/storage"
)

type ReviewService struct {
	reviews  *repository.ReviewRepository
	variants *repository.VariantRepository
	store    storage.Store
}

func NewReviewService(reviews *repository.ReviewRepository, variants *repository.VariantRepository, store storage.Store) *ReviewService {
	return &ReviewService{reviews: reviews, variants: variants, store: store}
}

type ReviewInput struct {
	Rating     *int
	ReviewText *string
	IsVerified *bool
}

func (s *ReviewService) ListForVariant(variantID uint, page, limit int) ([]models.UserReview, int64, error) {
	if _, err := s.variants.GetByID(variantID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByVariant(variantID, page, limit)
}

func (s *ReviewService) List(q repository.ListQuery) ([]models.UserReview, int64, error) {
	return s.reviews.List(q)
}

func (s *ReviewService) Get(id uint) (*models.UserReview, error) {
	return s.reviews.GetByID(id)
}

// Create stores a review by userID with optional images and refreshes the
// product's overall rating. Images are uploaded first; when any upload or the
// insert fails nothing is persisted and the uploaded files are removed.
func (s *ReviewService) Create(ctx context.Context, userID, variantID uint, in ReviewInput, uploads []Upload) (*models.UserReview, error) {
	if in.Rating == nil || !validRating(*in.Rating) {
		return nil, ErrInvalidRating
	}
	if _, err := s.variants.GetByID(variantID); err != nil {
		return nil, err
	}
	r := &models.UserReview{
		UserID:           userID,
		ProductVariantID: variantID,
		Rating:           uint8(*in.Rating),
		ReviewText:       trimmed(in.ReviewText),
	}
	for _, up := range uploads {
		obj, err := s.store.Save(ctx, domain.FolderReviewImages, up.Filename, up.Body, up.ContentType)
		if err != nil {
			s.discardImages(ctx, r.Images)
			return nil, err
		}
		r.Images = append(r.Images, models.ReviewImage{Image: obj.Key, ImageURL: obj.URL})
	}
	if err := s.reviews.CreateRated(r); err != nil {
		s.discardImages(ctx, r.Images)
		return nil, duplicate(err)
	}
	log.Printf("[store] review %d by user %d on variant %d (%d/5)", r.ID, userID, variantID, r.Rating)
	return r, nil
}

// Update is the admin edit: rating, text and the verified-purchase flag.
func (s *ReviewService) Update(id uint, in ReviewInput) (*models.UserReview, error) {
	r, err := s.reviews.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil {
		if !validRating(*in.Rating) {
			return nil, ErrInvalidRating
		}
		r.Rating = uint8(*in.Rating)
	}
	if in.ReviewText != nil {
		r.ReviewText = trimmed(in.ReviewText)
	}
	if in.IsVerified != nil {
		r.IsVerified = *in.IsVerified
	}
	r.User, r.ProductVariant = nil, nil
	if err := s.reviews.UpdateRated(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	r, err := s.reviews.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteRated(r); err != nil {
		return err
	}
	for _, img := range r.Images {
		discard(ctx, s.store, img.Image)
	}
	return nil
}

func (s *ReviewService) Like(id uint) (*models.UserReview, error) {
	if err := s.reviews.IncrementLikes(id); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(id)
}

func (s *ReviewService) Dislike(id uint) (*models.UserReview, error) {
	if err := s.reviews.IncrementDislikes(id); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(id)
}

func (s *ReviewService) DeleteImage(ctx context.Context, id uint) error {
	img, err := s.reviews.GetImage(id)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteImage(id); err != nil {
		return err
	}
	discard(ctx, s.store, img.Image)
	return nil
}

func (s *ReviewService) discardImages(ctx context.Context, imgs []models.ReviewImage) {
	for _, img := range imgs {
		discard(ctx, s.store, img.Image)
	}
}

func validRating(r int) bool {
	return r >= domain.MinRating && r <= domain.MaxRating
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
