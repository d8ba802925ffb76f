package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"boutique/internal/domain"
	"boutique/internal/models"
	"boutique/internal/repository"
	"boutique/internal/swatch"
	"boutique/pkg/storage"
)

var hexRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CatalogService struct {
	categories *repository.CategoryRepository
	colors     *repository.ColorRepository
	sizes      *repository.SizeRepository
	attributes *repository.SizeAttributeRepository
	store      storage.Store
}

func NewCatalogService(
	categories *repository.CategoryRepository,
	colors *repository.ColorRepository,
	sizes *repository.SizeRepository,
	attributes *repository.SizeAttributeRepository,
	store storage.Store,
) *CatalogService {
	return &CatalogService{categories: categories, colors: colors, sizes: sizes, attributes: attributes, store: store}
}

type CategoryInput struct {
	Name            *string
	Description     *string
	ParentID        *uint
	ClearParent     bool
	Slug            *string
	IsActive        *bool
	MetaTitle       *string
	MetaDescription *string
}

// CategoryTree returns the active categories as a forest ordered by name. A
// category whose parent is inactive is not shown.
func (s *CatalogService) CategoryTree() ([]models.Category, error) {
	cats, err := s.categories.ListActive()
	if err != nil {
		return nil, err
	}
	children := make(map[uint][]models.Category)
	var roots []models.Category
	for _, c := range cats {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	var attach func(nodes []models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			nodes[i].Subcategories = attach(children[nodes[i].ID])
		}
		return nodes
	}
	return attach(roots), nil
}

func (s *CatalogService) ListCategories(q repository.ListQuery) ([]models.Category, int64, error) {
	return s.categories.List(q)
}

func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	return s.categories.GetByID(id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput, img *Upload) (*models.Category, error) {
	c := &models.Category{IsActive: true}
	if err := s.applyCategory(c, in); err != nil {
		return nil, err
	}
	if img != nil {
		if err := s.storeImage(ctx, img, domain.FolderCategoryImages, &c.Image, &c.ImageURL); err != nil {
			return nil, err
		}
	}
	if err := s.categories.Create(c); err != nil {
		discard(ctx, s.store, c.Image)
		return nil, duplicate(err)
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput, img *Upload) (*models.Category, error) {
	c, err := s.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCategory(c, in); err != nil {
		return nil, err
	}
	old := c.Image
	if img != nil {
		if err := s.storeImage(ctx, img, domain.FolderCategoryImages, &c.Image, &c.ImageURL); err != nil {
			return nil, err
		}
	}
	c.Parent = nil
	if err := s.categories.Update(c); err != nil {
		if img != nil {
			discard(ctx, s.store, c.Image)
		}
		return nil, duplicate(err)
	}
	if img != nil {
		discard(ctx, s.store, old)
	}
	return c, nil
}

// DeleteCategory removes the category and, through the cascade, its subtree.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	c, err := s.categories.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(id); err != nil {
		return err
	}
	discard(ctx, s.store, c.Image)
	return nil
}

func (s *CatalogService) applyCategory(c *models.Category, in CategoryInput) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.Slug != nil {
		c.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.MetaTitle != nil {
		c.MetaTitle = in.MetaTitle
	}
	if in.MetaDescription != nil {
		c.MetaDescription = in.MetaDescription
	}
	if in.ClearParent {
		c.ParentID = nil
	}
	if in.ParentID != nil {
		if err := s.checkParent(c.ID, *in.ParentID); err != nil {
			return err
		}
		pid := *in.ParentID
		c.ParentID = &pid
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingFields)
	}
	return nil
}

// checkParent walks up from parentID and refuses a chain that reaches id.
func (s *CatalogService) checkParent(id, parentID uint) error {
	seen := map[uint]bool{}
	for cur := parentID; ; {
		if id != 0 && cur == id {
			return ErrCategoryCycle
		}
		if seen[cur] {
			return ErrCategoryCycle
		}
		seen[cur] = true
		p, err := s.categories.GetByID(cur)
		if err != nil {
			return err
		}
		if p.ParentID == nil {
			return nil
		}
		cur = *p.ParentID
	}
}

type ColorInput struct {
	Name     *string
	HexValue *string
}

func (s *CatalogService) ListColors(q repository.ListQuery) ([]models.Color, int64, error) {
	return s.colors.List(q)
}

func (s *CatalogService) AllColors() ([]models.Color, error) {
	return s.colors.All()
}

func (s *CatalogService) GetColor(id uint) (*models.Color, error) {
	return s.colors.GetByID(id)
}

// CreateColor stores the uploaded image as a swatch; the image is required.
func (s *CatalogService) CreateColor(ctx context.Context, in ColorInput, img *Upload) (*models.Color, error) {
	if img == nil {
		return nil, ErrImageRequired
	}
	c := &models.Color{}
	if err := applyColor(c, in); err != nil {
		return nil, err
	}
	if err := s.storeSwatch(ctx, c, img); err != nil {
		return nil, err
	}
	if err := s.colors.Create(c); err != nil {
		discard(ctx, s.store, c.Image)
		return nil, duplicate(err)
	}
	return c, nil
}

func (s *CatalogService) UpdateColor(ctx context.Context, id uint, in ColorInput, img *Upload) (*models.Color, error) {
	c, err := s.colors.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyColor(c, in); err != nil {
		return nil, err
	}
	old := c.Image
	if img != nil {
		if err := s.storeSwatch(ctx, c, img); err != nil {
			return nil, err
		}
	}
	if err := s.colors.Update(c); err != nil {
		if img != nil {
			discard(ctx, s.store, c.Image)
		}
		return nil, duplicate(err)
	}
	if img != nil {
		discard(ctx, s.store, old)
	}
	return c, nil
}

func (s *CatalogService) DeleteColor(ctx context.Context, id uint) error {
	c, err := s.colors.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.colors.Delete(id); err != nil {
		return err
	}
	discard(ctx, s.store, c.Image)
	return nil
}

func applyColor(c *models.Color, in ColorInput) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.HexValue != nil {
		hex := strings.TrimSpace(*in.HexValue)
		switch {
		case hex == "":
			c.HexValue = nil
		case !hexRe.MatchString(hex):
			return ErrInvalidHex
		default:
			hex = strings.ToUpper(hex)
			c.HexValue = &hex
		}
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingFields)
	}
	return nil
}

// storeSwatch replaces the upload with its 50x50 swatch before it is saved.
func (s *CatalogService) storeSwatch(ctx context.Context, c *models.Color, img *Upload) error {
	res, err := swatch.Resize(img.Body)
	if err != nil {
		return err
	}
	obj, err := s.store.Save(ctx, domain.FolderColorImages, "swatch"+res.Ext, bytes.NewReader(res.Data), res.ContentType)
	if err != nil {
		return err
	}
	log.Printf("[storage] stored %s swatch %s", res.Format, obj.Key)
	c.Image, c.ImageURL = obj.Key, obj.URL
	return nil
}

func (s *CatalogService) storeImage(ctx context.Context, img *Upload, folder string, key, url *string) error {
	obj, err := s.store.Save(ctx, folder, img.Filename, img.Body, img.ContentType)
	if err != nil {
		return err
	}
	*key, *url = obj.Key, obj.URL
	return nil
}

type SizeInput struct {
	Name        *string
	Code        *string
	Description *string
}

func (s *CatalogService) ListSizes(q repository.ListQuery) ([]models.Size, int64, error) {
	return s.sizes.List(q)
}

func (s *CatalogService) AllSizes() ([]models.Size, error) {
	return s.sizes.All()
}

func (s *CatalogService) GetSize(id uint) (*models.Size, error) {
	return s.sizes.GetByID(id)
}

func (s *CatalogService) CreateSize(in SizeInput) (*models.Size, error) {
	size := &models.Size{}
	if err := applySize(size, in); err != nil {
		return nil, err
	}
	if err := s.sizes.Create(size); err != nil {
		return nil, duplicate(err)
	}
	return size, nil
}

func (s *CatalogService) UpdateSize(id uint, in SizeInput) (*models.Size, error) {
	size, err := s.sizes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applySize(size, in); err != nil {
		return nil, err
	}
	if err := s.sizes.Update(size); err != nil {
		return nil, duplicate(err)
	}
	return size, nil
}

func (s *CatalogService) DeleteSize(id uint) error {
	return s.sizes.Delete(id)
}

func applySize(size *models.Size, in SizeInput) error {
	if in.Name != nil {
		size.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		size.Code = strings.TrimSpace(*in.Code)
	}
	if in.Description != nil {
		size.Description = in.Description
	}
	if size.Name == "" || size.Code == "" {
		return fmt.Errorf("%w: name, code", ErrMissingFields)
	}
	return nil
}

func (s *CatalogService) ListSizeAttributes(q repository.ListQuery) ([]models.SizeAttribute, int64, error) {
	return s.attributes.List(q)
}

func (s *CatalogService) AllSizeAttributes() ([]models.SizeAttribute, error) {
	return s.attributes.All()
}

func (s *CatalogService) GetSizeAttribute(id uint) (*models.SizeAttribute, error) {
	return s.attributes.GetByID(id)
}

func (s *CatalogService) SaveSizeAttribute(id uint, name string, description *string) (*models.SizeAttribute, error) {
	attr := &models.SizeAttribute{}
	if id != 0 {
		var err error
		if attr, err = s.attributes.GetByID(id); err != nil {
			return nil, err
		}
	}
	attr.Name = strings.TrimSpace(name)
	attr.Description = description
	if attr.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}
	var err error
	if id == 0 {
		err = s.attributes.Create(attr)
	} else {
		err = s.attributes.Update(attr)
	}
	if err != nil {
		return nil, duplicate(err)
	}
	return attr, nil
}

func (s *CatalogService) DeleteSizeAttribute(id uint) error {
	return s.attributes.Delete(id)
}
