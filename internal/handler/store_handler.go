package handler

import (
	"net/http"
	"strconv"

	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StoreHandler struct {
	svc *service.StoreService
}

func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{svc: svc}
}

// ProductRequest is the admin product form. base_price accepts a JSON number
// or string; clear_base_price removes it.
type ProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description    *string          `json:"description"`
	BasePrice      *decimal.Decimal `json:"base_price"`
	ClearBasePrice bool             `json:"clear_base_price"`
	Exclusive      *bool            `json:"exclusive"`
	ReturnPolicy   *string          `json:"return_policy" binding:"omitempty,max=255"`
	ExchangePolicy *string          `json:"exchange_policy" binding:"omitempty,max=255"`
	PayOnDelivery  *bool            `json:"pay_on_delivery"`
	PatternID      *uint            `json:"pattern_id"`
	FabricID       *uint            `json:"fabric_id"`
	ShapeID        *uint            `json:"shape_id"`
	LengthID       *uint            `json:"length_id"`
	NeckID         *uint            `json:"neck_id"`
	SleeveLengthID *uint            `json:"sleeve_length_id"`
	Instructions   *string          `json:"instructions"`
	WashCare       *string          `json:"wash_care"`
	QualityChecked *bool            `json:"quality_checked"`
	Slug           *string          `json:"slug" binding:"omitempty,max=255"`
	CategoryIDs    *[]uint          `json:"category_ids"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		BasePrice:      r.BasePrice,
		ClearBasePrice: r.ClearBasePrice,
		Exclusive:      r.Exclusive,
		ReturnPolicy:   r.ReturnPolicy,
		ExchangePolicy: r.ExchangePolicy,
		PayOnDelivery:  r.PayOnDelivery,
		PatternID:      r.PatternID,
		FabricID:       r.FabricID,
		ShapeID:        r.ShapeID,
		LengthID:       r.LengthID,
		NeckID:         r.NeckID,
		SleeveLengthID: r.SleeveLengthID,
		Instructions:   r.Instructions,
		WashCare:       r.WashCare,
		QualityChecked: r.QualityChecked,
		Slug:           r.Slug,
		CategoryIDs:    r.CategoryIDs,
	}
}

type VariantRequest struct {
	ProductID       *uint   `json:"product_id"`
	VariantName     *string `json:"variant_name" binding:"omitempty,min=1,max=100"`
	ColorIDs        *[]uint `json:"color_ids"`
	SizeID          *uint   `json:"size_id"`
	ClearSize       bool    `json:"clear_size"`
	OfferPercentage *int    `json:"offer_percentage" binding:"omitempty,min=0,max=99"`
	StockCount      *int    `json:"stock_count" binding:"omitempty,min=0"`
	SKU             *string `json:"sku" binding:"omitempty,min=1,max=100"`
	Slug            *string `json:"slug" binding:"omitempty,max=255"`
	IsActive        *bool   `json:"is_active"`
}

func (r VariantRequest) input() service.VariantInput {
	return service.VariantInput{
		ProductID:       r.ProductID,
		VariantName:     r.VariantName,
		ColorIDs:        r.ColorIDs,
		SizeID:          r.SizeID,
		ClearSize:       r.ClearSize,
		OfferPercentage: r.OfferPercentage,
		StockCount:      r.StockCount,
		SKU:             r.SKU,
		Slug:            r.Slug,
		IsActive:        r.IsActive,
	}
}

// ImageSelection names the images an admin action applies to.
type ImageSelection struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type MeasurementRequest struct {
	SizeID           *uint    `json:"size_id"`
	ProductVariantID *uint    `json:"product_variant_id"`
	AttributeID      *uint    `json:"attribute_id"`
	Centimeter       *float64 `json:"centimeter"`
	Inch             *string  `json:"inch" binding:"omitempty,max=20"`
}

// ProductBySlug handles GET /products/:slug.
func (h *StoreHandler) ProductBySlug(c *gin.Context) {
	d, err := h.svc.ProductDetail(c.Param("slug"))
	if err != nil {
		fail(c, "store", "failed to load product", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *StoreHandler) ListProducts(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListProducts(q)
	if err != nil {
		fail(c, "store", "failed to list products", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *StoreHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(id)
	if err != nil {
		fail(c, "store", "failed to load product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StoreHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreateProduct(req.input())
	if err != nil {
		fail(c, "store", "failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *StoreHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.UpdateProduct(id, req.input())
	if err != nil {
		fail(c, "store", "failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StoreHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, "store", "failed to delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StoreHandler) ListVariants(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListVariants(q)
	if err != nil {
		fail(c, "store", "failed to list variants", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *StoreHandler) GetVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetVariant(id)
	if err != nil {
		fail(c, "store", "failed to load variant", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *StoreHandler) CreateVariant(c *gin.Context) {
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.CreateVariant(req.input())
	if err != nil {
		fail(c, "store", "failed to create variant", err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *StoreHandler) UpdateVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.UpdateVariant(id, req.input())
	if err != nil {
		fail(c, "store", "failed to update variant", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *StoreHandler) DeleteVariant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVariant(c.Request.Context(), id); err != nil {
		fail(c, "store", "failed to delete variant", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StoreHandler) ListImages(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListImages(q)
	if err != nil {
		fail(c, "store", "failed to list images", err)
		return
	}
	paged(c, rows, total, q)
}

// UploadImages handles POST /admin/variants/:id/images. Files come in the
// multipart "images" field; the optional "primary" field is the index of the
// file to mark primary.
func (h *StoreHandler) UploadImages(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uploads, done, err := openUploads(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	primary := -1
	if v := c.PostForm("primary"); v != "" {
		if primary, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid primary"})
			return
		}
	}
	imgs, err := h.svc.AddImages(c.Request.Context(), id, uploads, primary)
	if err != nil {
		fail(c, "store", "upload failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": imgs})
}

// MarkPrimary handles POST /admin/images/mark-primary.
func (h *StoreHandler) MarkPrimary(c *gin.Context) {
	var req ImageSelection
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	imgs, err := h.svc.MarkPrimary(req.IDs)
	if err != nil {
		fail(c, "store", "failed to mark primary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": imgs})
}

// RemoveImages handles POST /admin/images/remove.
func (h *StoreHandler) RemoveImages(c *gin.Context) {
	var req ImageSelection
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.RemoveImages(c.Request.Context(), req.IDs)
	if err != nil {
		fail(c, "store", "failed to remove images", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (h *StoreHandler) ListMeasurements(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListMeasurements(q)
	if err != nil {
		fail(c, "store", "failed to list measurements", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *StoreHandler) GetMeasurement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMeasurement(id)
	if err != nil {
		fail(c, "store", "failed to load measurement", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *StoreHandler) CreateMeasurement(c *gin.Context) {
	h.saveMeasurement(c, 0, http.StatusCreated)
}

func (h *StoreHandler) UpdateMeasurement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.saveMeasurement(c, id, http.StatusOK)
}

func (h *StoreHandler) saveMeasurement(c *gin.Context, id uint, status int) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.SaveMeasurement(id, service.MeasurementInput{
		SizeID:           req.SizeID,
		ProductVariantID: req.ProductVariantID,
		AttributeID:      req.AttributeID,
		Centimeter:       req.Centimeter,
		Inch:             req.Inch,
	})
	if err != nil {
		fail(c, "store", "failed to save measurement", err)
		return
	}
	c.JSON(status, m)
}

func (h *StoreHandler) DeleteMeasurement(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMeasurement(id); err != nil {
		fail(c, "store", "failed to delete measurement", err)
		return
	}
	c.Status(http.StatusNoContent)
}
