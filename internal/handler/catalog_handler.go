package handler

import (
	"net/http"

	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type CategoryRequest struct {
	Name            *string `json:"name" form:"name" binding:"omitempty,min=1,max=255"`
	Description     *string `json:"description" form:"description"`
	ParentID        *uint   `json:"parent_id" form:"parent_id"`
	ClearParent     bool    `json:"clear_parent" form:"clear_parent"`
	Slug            *string `json:"slug" form:"slug" binding:"omitempty,max=255"`
	IsActive        *bool   `json:"is_active" form:"is_active"`
	MetaTitle       *string `json:"meta_title" form:"meta_title" binding:"omitempty,max=255"`
	MetaDescription *string `json:"meta_description" form:"meta_description" binding:"omitempty,max=255"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:            r.Name,
		Description:     r.Description,
		ParentID:        r.ParentID,
		ClearParent:     r.ClearParent,
		Slug:            r.Slug,
		IsActive:        r.IsActive,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
	}
}

type ColorRequest struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,min=1,max=100"`
	HexValue *string `json:"hex_value" form:"hex_value"`
}

type SizeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=20"`
	Code        *string `json:"code" binding:"omitempty,min=1,max=4"`
	Description *string `json:"description"`
}

type NamedRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

// Categories handles GET /categories: the active category tree.
func (h *CatalogHandler) Categories(c *gin.Context) {
	tree, err := h.svc.CategoryTree()
	if err != nil {
		fail(c, "catalog", "failed to load categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tree})
}

// Colors handles GET /colors.
func (h *CatalogHandler) Colors(c *gin.Context) {
	colors, err := h.svc.AllColors()
	if err != nil {
		fail(c, "catalog", "failed to load colors", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": colors})
}

// Sizes handles GET /sizes.
func (h *CatalogHandler) Sizes(c *gin.Context) {
	sizes, err := h.svc.AllSizes()
	if err != nil {
		fail(c, "catalog", "failed to load sizes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sizes})
}

// SizeAttributes handles GET /size-attributes.
func (h *CatalogHandler) SizeAttributes(c *gin.Context) {
	attrs, err := h.svc.AllSizeAttributes()
	if err != nil {
		fail(c, "catalog", "failed to load size attributes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attrs})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListCategories(q)
	if err != nil {
		fail(c, "catalog", "failed to list categories", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.svc.GetCategory(id)
	if err != nil {
		fail(c, "catalog", "failed to load category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// CreateCategory handles POST /admin/categories (JSON or multipart with an
// optional "image" file).
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	img, done, err := openUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	cat, err := h.svc.CreateCategory(c.Request.Context(), req.input(), img)
	if err != nil {
		fail(c, "catalog", "failed to create category", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	img, done, err := openUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	cat, err := h.svc.UpdateCategory(c.Request.Context(), id, req.input(), img)
	if err != nil {
		fail(c, "catalog", "failed to update category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		fail(c, "catalog", "failed to delete category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListColors(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListColors(q)
	if err != nil {
		fail(c, "catalog", "failed to list colors", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *CatalogHandler) GetColor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	color, err := h.svc.GetColor(id)
	if err != nil {
		fail(c, "catalog", "failed to load color", err)
		return
	}
	c.JSON(http.StatusOK, color)
}

// CreateColor handles POST /admin/colors. The multipart "image" file is
// required and stored as a 50x50 swatch.
func (h *CatalogHandler) CreateColor(c *gin.Context) {
	var req ColorRequest
	if !bind(c, &req) {
		return
	}
	img, done, err := openUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	color, err := h.svc.CreateColor(c.Request.Context(), service.ColorInput{Name: req.Name, HexValue: req.HexValue}, img)
	if err != nil {
		fail(c, "catalog", "failed to create color", err)
		return
	}
	c.JSON(http.StatusCreated, color)
}

func (h *CatalogHandler) UpdateColor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ColorRequest
	if !bind(c, &req) {
		return
	}
	img, done, err := openUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer done()
	color, err := h.svc.UpdateColor(c.Request.Context(), id, service.ColorInput{Name: req.Name, HexValue: req.HexValue}, img)
	if err != nil {
		fail(c, "catalog", "failed to update color", err)
		return
	}
	c.JSON(http.StatusOK, color)
}

func (h *CatalogHandler) DeleteColor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteColor(c.Request.Context(), id); err != nil {
		fail(c, "catalog", "failed to delete color", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListSizes(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListSizes(q)
	if err != nil {
		fail(c, "catalog", "failed to list sizes", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *CatalogHandler) GetSize(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	size, err := h.svc.GetSize(id)
	if err != nil {
		fail(c, "catalog", "failed to load size", err)
		return
	}
	c.JSON(http.StatusOK, size)
}

func (h *CatalogHandler) CreateSize(c *gin.Context) {
	var req SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size, err := h.svc.CreateSize(service.SizeInput{Name: req.Name, Code: req.Code, Description: req.Description})
	if err != nil {
		fail(c, "catalog", "failed to create size", err)
		return
	}
	c.JSON(http.StatusCreated, size)
}

func (h *CatalogHandler) UpdateSize(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size, err := h.svc.UpdateSize(id, service.SizeInput{Name: req.Name, Code: req.Code, Description: req.Description})
	if err != nil {
		fail(c, "catalog", "failed to update size", err)
		return
	}
	c.JSON(http.StatusOK, size)
}

func (h *CatalogHandler) DeleteSize(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSize(id); err != nil {
		fail(c, "catalog", "failed to delete size", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListSizeAttributes(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.ListSizeAttributes(q)
	if err != nil {
		fail(c, "catalog", "failed to list size attributes", err)
		return
	}
	paged(c, rows, total, q)
}

func (h *CatalogHandler) GetSizeAttribute(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	attr, err := h.svc.GetSizeAttribute(id)
	if err != nil {
		fail(c, "catalog", "failed to load size attribute", err)
		return
	}
	c.JSON(http.StatusOK, attr)
}

func (h *CatalogHandler) CreateSizeAttribute(c *gin.Context) {
	h.saveSizeAttribute(c, 0, http.StatusCreated)
}

func (h *CatalogHandler) UpdateSizeAttribute(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.saveSizeAttribute(c, id, http.StatusOK)
}

func (h *CatalogHandler) saveSizeAttribute(c *gin.Context, id uint, status int) {
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attr, err := h.svc.SaveSizeAttribute(id, req.Name, req.Description)
	if err != nil {
		fail(c, "catalog", "failed to save size attribute", err)
		return
	}
	c.JSON(status, attr)
}

func (h *CatalogHandler) DeleteSizeAttribute(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSizeAttribute(id); err != nil {
		fail(c, "catalog", "failed to delete size attribute", err)
		return
	}
	c.Status(http.StatusNoContent)
}
