package repository

import (
	"boutique/internal/models"

	"gorm.io/gorm"
)

var nameSearch = []string{"LOWER(name) LIKE ?", "LOWER(description) LIKE ?"}

type CategoryRepository struct {
	crud[models.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{crud[models.Category]{db: db, spec: listSpec{
		search: []string{
			"LOWER(name) LIKE ?",
			"LOWER(description) LIKE ?",
			"LOWER(meta_title) LIKE ?",
			"LOWER(meta_description) LIKE ?",
		},
		filters: map[string]filter{
			"is_active": {"is_active = ?", boolFilter},
			"parent":    {"parent_id = ?", idFilter},
		},
		order:    "name ASC, id ASC",
		preloads: []string{"Parent"},
	}}}
}

// ListActive returns every active category ordered by name.
func (r *CategoryRepository) ListActive() ([]models.Category, error) {
	var cats []models.Category
	err := r.db.Where("is_active = ?", true).Order("name ASC, id ASC").Find(&cats).Error
	return cats, err
}

// FindByIDs returns the categories with the given ids, ignoring unknown ones.
func (r *CategoryRepository) FindByIDs(ids []uint) ([]models.Category, error) {
	var cats []models.Category
	if len(ids) == 0 {
		return cats, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&cats).Error
	return cats, err
}

// TermRepository manages one of the name/description lookup tables a product
// references. Deleting a term that a product still points at is refused.
type TermRepository[T any] struct {
	crud[T]
	productColumn string
}

func NewTermRepository[T any](db *gorm.DB, productColumn string) *TermRepository[T] {
	return &TermRepository[T]{
		crud:          crud[T]{db: db, spec: listSpec{search: nameSearch, order: "name ASC, id ASC"}},
		productColumn: productColumn,
	}
}

// All returns every term ordered by name.
func (r *TermRepository[T]) All() ([]T, error) {
	var items []T
	err := r.db.Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *TermRepository[T]) Delete(id uint) error {
	var n int64
	err := r.db.Model(&models.Product{}).Where(r.productColumn+" = ?", id).Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProtected
	}
	return r.crud.Delete(id)
}

type ColorRepository struct {
	crud[models.Color]
}

func NewColorRepository(db *gorm.DB) *ColorRepository {
	return &ColorRepository{crud[models.Color]{db: db, spec: listSpec{
		search: []string{"LOWER(name) LIKE ?", "LOWER(hex_value) LIKE ?"},
		order:  "name ASC, id ASC",
	}}}
}

func (r *ColorRepository) All() ([]models.Color, error) {
	var colors []models.Color
	err := r.db.Order("name ASC, id ASC").Find(&colors).Error
	return colors, err
}

func (r *ColorRepository) FindByIDs(ids []uint) ([]models.Color, error) {
	var colors []models.Color
	if len(ids) == 0 {
		return colors, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&colors).Error
	return colors, err
}

type SizeRepository struct {
	crud[models.Size]
}

func NewSizeRepository(db *gorm.DB) *SizeRepository {
	return &SizeRepository{crud[models.Size]{db: db, spec: listSpec{
		search: []string{"LOWER(name) LIKE ?", "LOWER(code) LIKE ?"},
		order:  "name ASC, id ASC",
	}}}
}

func (r *SizeRepository) All() ([]models.Size, error) {
	var sizes []models.Size
	err := r.db.Order("name ASC, id ASC").Find(&sizes).Error
	return sizes, err
}

type SizeAttributeRepository struct {
	crud[models.SizeAttribute]
}

func NewSizeAttributeRepository(db *gorm.DB) *SizeAttributeRepository {
	return &SizeAttributeRepository{crud[models.SizeAttribute]{db: db, spec: listSpec{
		search: nameSearch,
		order:  "name ASC, id ASC",
	}}}
}

func (r *SizeAttributeRepository) All() ([]models.SizeAttribute, error) {
	var attrs []models.SizeAttribute
	err := r.db.Order("name ASC, id ASC").Find(&attrs).Error
	return attrs, err
}
