package repository

import (
	"boutique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productTerms = []string{"Pattern", "Fabric", "Shape", "Length", "Neck", "SleeveLength"}

type ProductRepository struct {
	crud[models.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{crud[models.Product]{db: db, spec: listSpec{
		search: []string{"LOWER(name) LIKE ?"},
		filters: map[string]filter{
			"exclusive":       {"exclusive = ?", boolFilter},
			"pay_on_delivery": {"pay_on_delivery = ?", boolFilter},
			"quality_checked": {"quality_checked = ?", boolFilter},
			"pattern":         {"pattern_id = ?", idFilter},
			"fabric":          {"fabric_id = ?", idFilter},
			"category":        {"id IN (SELECT product_id FROM product_categories WHERE category_id = ?)", idFilter},
		},
		order:    "name ASC, id ASC",
		preloads: append([]string{"Categories"}, productTerms...),
	}}}
}

// CreateWithCategories inserts the product and links it to cats without
// touching the category rows themselves.
func (r *ProductRepository) CreateWithCategories(p *models.Product, cats []models.Category) error {
	p.Categories = cats
	return r.db.Omit("Categories.*").Create(p).Error
}

// UpdateWithCategories saves the product columns and replaces its category set.
func (r *ProductRepository) UpdateWithCategories(p *models.Product, cats []models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return err
		}
		if err := tx.Model(p).Association("Categories").Replace(cats); err != nil {
			return err
		}
		p.Categories = cats
		return nil
	})
}

// GetBySlug loads a product with everything its detail page shows.
func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var p models.Product
	q := r.spec.preload(r.db).
		Preload("Variants", "is_active = ?", true).
		Preload("Variants.Size").
		Preload("Variants.Colors").
		Preload("Variants.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Variants.SizeAttributes.Attribute").
		Preload("Variants.SizeAttributes.Size")
	if err := q.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	models.SortVariants(p.Variants)
	return &p, nil
}

// TermsExist reports whether every taxonomy row the product points at exists.
func (r *ProductRepository) TermsExist(p *models.Product) (bool, error) {
	refs := []struct {
		model any
		id    uint
	}{
		{&models.Pattern{}, p.PatternID},
		{&models.Fabric{}, p.FabricID},
		{&models.Shape{}, p.ShapeID},
		{&models.Length{}, p.LengthID},
		{&models.Neck{}, p.NeckID},
		{&models.SleeveLength{}, p.SleeveLengthID},
	}
	for _, ref := range refs {
		var n int64
		if err := r.db.Model(ref.model).Where("id = ?", ref.id).Count(&n).Error; err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
	return true, nil
}

// All returns every product ordered by name.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("name ASC, id ASC").Find(&products).Error
	return products, err
}

type VariantRepository struct {
	crud[models.ProductVariant]
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{crud[models.ProductVariant]{db: db, spec: listSpec{
		search: []string{"LOWER(sku) LIKE ?", "LOWER(variant_name) LIKE ?"},
		filters: map[string]filter{
			"product":   {"product_id = ?", idFilter},
			"size":      {"size_id = ?", idFilter},
			"is_active": {"is_active = ?", boolFilter},
			"color":     {"id IN (SELECT product_variant_id FROM product_variant_colors WHERE color_id = ?)", idFilter},
		},
		order:    "product_id ASC, id ASC",
		preloads: []string{"Product", "Size", "Colors"},
	}}}
}

func (r *VariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.spec.preload(r.db).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("SizeAttributes.Attribute").
		First(&v, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// Exists reports whether the product already has a variant with this name and
// size, other than excludeID. A nil size matches only size-less variants.
func (r *VariantRepository) Exists(productID uint, name string, sizeID *uint, excludeID uint) (bool, error) {
	q := r.db.Model(&models.ProductVariant{}).
		Where("product_id = ? AND variant_name = ? AND id <> ?", productID, name, excludeID)
	if sizeID == nil {
		q = q.Where("size_id IS NULL")
	} else {
		q = q.Where("size_id = ?", *sizeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// DeleteRated removes the variant together with its reviews and refreshes the
// product's overall rating.
func (r *VariantRepository) DeleteRated(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var v models.ProductVariant
		if err := tx.Select("id", "product_id").First(&v, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("product_variant_id = ?", id).Delete(&models.UserReview{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ProductVariant{}, id).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, v.ProductID)
	})
}

func (r *VariantRepository) CreateWithColors(v *models.ProductVariant, colors []models.Color) error {
	v.Colors = colors
	return r.db.Omit("Colors.*", "Product", "Size").Create(v).Error
}

func (r *VariantRepository) UpdateWithColors(v *models.ProductVariant, colors []models.Color) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(v).Error; err != nil {
			return err
		}
		if err := tx.Model(v).Association("Colors").Replace(colors); err != nil {
			return err
		}
		v.Colors = colors
		return nil
	})
}

// ForProducts returns the variants of the given products with sizes loaded.
func (r *VariantRepository) ForProducts(productIDs []uint) ([]models.ProductVariant, error) {
	var vs []models.ProductVariant
	if len(productIDs) == 0 {
		return vs, nil
	}
	err := r.db.Preload("Size").Where("product_id IN ?", productIDs).Find(&vs).Error
	return vs, err
}

type VariantImageRepository struct {
	crud[models.ProductVariantImage]
}

func NewVariantImageRepository(db *gorm.DB) *VariantImageRepository {
	return &VariantImageRepository{crud[models.ProductVariantImage]{db: db, spec: listSpec{
		search: []string{
			"variant_id IN (SELECT pv.id FROM product_variants pv JOIN products p ON p.id = pv.product_id WHERE LOWER(p.name) LIKE ?)",
			"variant_id IN (SELECT id FROM product_variants WHERE LOWER(sku) LIKE ?)",
			"LOWER(image) LIKE ?",
		},
		filters: map[string]filter{
			"is_primary": {"is_primary = ?", boolFilter},
			"variant":    {"variant_id = ?", idFilter},
		},
		order:    "created_at ASC, id ASC",
		preloads: []string{"Variant"},
	}}}
}

func (r *VariantImageRepository) CountByVariant(variantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.ProductVariantImage{}).Where("variant_id = ?", variantID).Count(&n).Error
	return n, err
}

func (r *VariantImageRepository) ListByVariant(variantID uint) ([]models.ProductVariantImage, error) {
	var imgs []models.ProductVariantImage
	err := r.db.Where("variant_id = ?", variantID).Order("created_at ASC, id ASC").Find(&imgs).Error
	return imgs, err
}

// CreateBatch inserts images for one variant. When one of them is primary the
// variant's other images lose the flag in the same transaction.
func (r *VariantImageRepository) CreateBatch(imgs []models.ProductVariantImage) error {
	if len(imgs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, img := range imgs {
			if img.IsPrimary {
				err := tx.Model(&models.ProductVariantImage{}).
					Where("variant_id = ?", img.VariantID).
					Update("is_primary", false).Error
				if err != nil {
					return err
				}
				break
			}
		}
		return tx.Create(&imgs).Error
	})
}

// MarkPrimary makes the selected images primary. Every other image of an
// affected variant is reset; when several images of one variant are selected
// the last one in creation order wins. The images that ended up primary are
// returned.
func (r *VariantImageRepository) MarkPrimary(ids []uint) ([]models.ProductVariantImage, error) {
	var chosen []models.ProductVariantImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var selected []models.ProductVariantImage
		err := tx.Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&selected).Error
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return ErrNotFound
		}
		winner := make(map[uint]int, len(selected))
		var order []uint
		for i, img := range selected {
			if _, seen := winner[img.VariantID]; !seen {
				order = append(order, img.VariantID)
			}
			winner[img.VariantID] = i
		}
		for _, variantID := range order {
			img := selected[winner[variantID]]
			err := tx.Model(&models.ProductVariantImage{}).
				Where("variant_id = ?", variantID).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
			if err := tx.Model(&img).Update("is_primary", true).Error; err != nil {
				return err
			}
			img.IsPrimary = true
			chosen = append(chosen, img)
		}
		return nil
	})
	return chosen, err
}

// DeleteMany removes the selected images and returns the rows that were deleted
// so their files can be cleaned up.
func (r *VariantImageRepository) DeleteMany(ids []uint) ([]models.ProductVariantImage, error) {
	var removed []models.ProductVariantImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) == 0 {
			return nil
		}
		return tx.Delete(&models.ProductVariantImage{}, ids).Error
	})
	return removed, err
}

// PrimaryForVariants returns, per variant id, its earliest primary image.
func (r *VariantImageRepository) PrimaryForVariants(variantIDs []uint) (map[uint]models.ProductVariantImage, error) {
	out := make(map[uint]models.ProductVariantImage, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	var imgs []models.ProductVariantImage
	err := r.db.Where("variant_id IN ? AND is_primary = ?", variantIDs, true).
		Order("created_at ASC, id ASC").
		Find(&imgs).Error
	if err != nil {
		return nil, err
	}
	for _, img := range imgs {
		if _, ok := out[img.VariantID]; !ok {
			out[img.VariantID] = img
		}
	}
	return out, nil
}

type ProductSizeAttributeRepository struct {
	crud[models.ProductSizeAttribute]
}

func NewProductSizeAttributeRepository(db *gorm.DB) *ProductSizeAttributeRepository {
	return &ProductSizeAttributeRepository{crud[models.ProductSizeAttribute]{db: db, spec: listSpec{
		search: []string{
			"size_id IN (SELECT id FROM sizes WHERE LOWER(name) LIKE ?)",
			"product_variant_id IN (SELECT id FROM product_variants WHERE LOWER(sku) LIKE ?)",
			"attribute_id IN (SELECT id FROM size_attributes WHERE LOWER(name) LIKE ?)",
		},
		filters: map[string]filter{
			"size":      {"size_id = ?", idFilter},
			"attribute": {"attribute_id = ?", idFilter},
			"variant":   {"product_variant_id = ?", idFilter},
		},
		order:    "product_variant_id ASC, id ASC",
		preloads: []string{"Size", "ProductVariant", "Attribute"},
	}}}
}
