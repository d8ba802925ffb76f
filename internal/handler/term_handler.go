package handler

import (
	"net/http"

	"boutique/internal/repository"

	"github.com/gin-gonic/gin"
)

// TermService is the part of service.TermService a TermHandler uses.
type TermService[T any] interface {
	All() ([]T, error)
	List(q repository.ListQuery) ([]T, int64, error)
	Get(id uint) (*T, error)
	Create(name string, description *string) (*T, error)
	Update(id uint, name string, description *string) (*T, error)
	Delete(id uint) error
}

// TermHandler serves one taxonomy table (fabrics, patterns, ...). kind names
// it in log lines and errors.
type TermHandler[T any] struct {
	svc  TermService[T]
	kind string
}

func NewTermHandler[T any](svc TermService[T], kind string) *TermHandler[T] {
	return &TermHandler[T]{svc: svc, kind: kind}
}

// All handles the public GET: every row ordered by name.
func (h *TermHandler[T]) All(c *gin.Context) {
	rows, err := h.svc.All()
	if err != nil {
		fail(c, "catalog", "failed to load "+h.kind, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *TermHandler[T]) List(c *gin.Context) {
	q := listQuery(c)
	rows, total, err := h.svc.List(q)
	if err != nil {
		fail(c, "catalog", "failed to list "+h.kind, err)
		return
	}
	paged(c, rows, total, q)
}

func (h *TermHandler[T]) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	row, err := h.svc.Get(id)
	if err != nil {
		fail(c, "catalog", "failed to load "+h.kind, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *TermHandler[T]) Create(c *gin.Context) {
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.Create(req.Name, req.Description)
	if err != nil {
		fail(c, "catalog", "failed to create "+h.kind, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *TermHandler[T]) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	row, err := h.svc.Update(id, req.Name, req.Description)
	if err != nil {
		fail(c, "catalog", "failed to update "+h.kind, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *TermHandler[T]) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		fail(c, "catalog", "failed to delete "+h.kind, err)
		return
	}
	c.Status(http.StatusNoContent)
}
