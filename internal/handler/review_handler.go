package handler

import (
	"net/http"
	"time"

	"boutique/internal/middleware"
	"boutique/internal/models"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewRequest struct {
	Rating     *int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	ReviewText *string `json:"review_text" form:"review_text"`
}

type AdminReviewRequest struct {
	Rating     *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	ReviewText *string `json:"review_text"`
	IsVerified *bool   `json:"is_verified"`
}

// PublicReview is a review as shown to shoppers: the author is reduced to a
// username.
type PublicReview struct {
	ID         uint                 `json:"id"`
	Username   string               `json:"username"`
	Rating     uint8                `json:"rating"`
	ReviewText *string              `json:"review_text"`
	Likes      uint                 `json:"likes"`
	Dislikes   uint                 `json:"dislikes"`
	IsVerified bool                 `json:"is_verified"`
	Images     []models.ReviewImage `json:"images"`
	Created    time.Time            `json:"created"`
}

func publicReview(r models.UserReview) PublicReview {
	p := PublicReview{
		ID:         r.ID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		Likes:      r.Likes,
		Dislikes:   r.Dislikes,
		IsVerified: r.IsVerified,
		Images:     r.Images,
		Created:    r.CreatedAt,
	}
	if r.User != nil {
		p.Username = r.User.Username
	}
	if p.Images == nil {
		p.Images = []models.ReviewImage{}
	}
	return p
}

// ListForVariant handles GET /variants/:id/reviews, newest first.
func (h *ReviewHandler) ListForVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, limit := parsePagination(c)
	rows, total, err := h.svc.ListForVariant(id, page, limit)
	if err != nil {
		fail(c, "reviews", "failed to list reviews", err)
		return
	}
	out := make([]PublicReview, len(rows))
	for i, r := range rows {
		out[i] = publicReview(r)
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total": total, "page": page, "limit": limit})
}

// Create handles POST /variants/:id/reviews. Photos may be attached as
// multipart "images" files.
func (h *ReviewHandler) Create(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bind(c, &req) {
		return
	}
	uploads, done, err := openUploads(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	r, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), id, service.ReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}, uploads)
	if err != nil {
		fail(c, "reviews", "failed to create review", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Like handles POST /reviews/:id/like.
func (h *ReviewHandler) Like(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Like(id)
	if err != nil {
		fail(c, "reviews", "failed to like review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": r.Likes, "dislikes": r.Dislikes})
}

// Dislike handles POST /reviews/:id/dislike.
func (h *ReviewHandler) Dislike(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Dislike(id)
	if err != nil {
		fail(c, "reviews", "failed to dislike review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": r.Likes, "dislikes": r.Dislikes})
}

func (h *ReviewHandler) List(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.List(q)
	if err != nil {
		fail(c, "reviews", "failed to list reviews", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.Get(id)
	if err != nil {
		fail(c, "reviews", "failed to load review", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req AdminReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.svc.Update(id, service.ReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		fail(c, "reviews", "failed to update review", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, "reviews", "failed to delete review", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteImage handles DELETE /admin/review-images/:id.
func (h *ReviewHandler) DeleteImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), id); err != nil {
		fail(c, "reviews", "failed to delete review image", err)
		return
	}
	c.Status(http.StatusNoContent)
}
