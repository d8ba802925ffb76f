package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"boutique/internal/domain"
	"boutique/internal/models"
	"boutique/internal/repository"
	"boutique/pkg/storage"

	"github.com/shopspring/decimal"
)

var maxBasePrice = decimal.RequireFromString("99999999.99")

type StoreService struct {
	products   *repository.ProductRepository
	variants   *repository.VariantRepository
	images     *repository.VariantImageRepository
	measures   *repository.ProductSizeAttributeRepository
	categories *repository.CategoryRepository
	colors     *repository.ColorRepository
	sizes      *repository.SizeRepository
	attributes *repository.SizeAttributeRepository
	store      storage.Store
}

type StoreRepos struct {
	Products   *repository.ProductRepository
	Variants   *repository.VariantRepository
	Images     *repository.VariantImageRepository
	Measures   *repository.ProductSizeAttributeRepository
	Categories *repository.CategoryRepository
	Colors     *repository.ColorRepository
	Sizes      *repository.SizeRepository
	Attributes *repository.SizeAttributeRepository
}

func NewStoreService(r StoreRepos, store storage.Store) *StoreService {
	return &StoreService{
		products:   r.Products,
		variants:   r.Variants,
		images:     r.Images,
		measures:   r.Measures,
		categories: r.Categories,
		colors:     r.Colors,
		sizes:      r.Sizes,
		attributes: r.Attributes,
		store:      store,
	}
}

type ProductInput struct {
	Name           *string
	Description    *string
	BasePrice      *decimal.Decimal
	ClearBasePrice bool
	Exclusive      *bool
	ReturnPolicy   *string
	ExchangePolicy *string
	PayOnDelivery  *bool
	PatternID      *uint
	FabricID       *uint
	ShapeID        *uint
	LengthID       *uint
	NeckID         *uint
	SleeveLengthID *uint
	Instructions   *string
	WashCare       *string
	QualityChecked *bool
	Slug           *string
	CategoryIDs    *[]uint
}

func (s *StoreService) ListProducts(q repository.ListQuery) ([]models.Product, int64, error) {
	return s.products.List(q)
}

func (s *StoreService) GetProduct(id uint) (*models.Product, error) {
	return s.products.GetByID(id)
}

// ProductDetail is a product page: the product and its priced active variants
// in default order.
type ProductDetail struct {
	models.Product
	Variants []VariantView `json:"variants"`
}

func (s *StoreService) ProductDetail(slug string) (*ProductDetail, error) {
	p, err := s.products.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	d := &ProductDetail{Product: *p, Variants: make([]VariantView, len(p.Variants))}
	d.Product.Variants = nil
	for i, v := range p.Variants {
		v.Product = &d.Product
		d.Variants[i] = NewVariantView(v)
		d.Variants[i].Product = nil
	}
	return d, nil
}

func (s *StoreService) CreateProduct(in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	cats, err := s.applyProduct(p, in)
	if err != nil {
		return nil, err
	}
	if err := s.products.CreateWithCategories(p, cats); err != nil {
		return nil, duplicate(err)
	}
	log.Printf("[store] created product %d (%s)", p.ID, p.Slug)
	return p, nil
}

func (s *StoreService) UpdateProduct(id uint, in ProductInput) (*models.Product, error) {
	p, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	cats, err := s.applyProduct(p, in)
	if err != nil {
		return nil, err
	}
	if in.CategoryIDs == nil {
		cats = p.Categories
	}
	if err := s.products.UpdateWithCategories(p, cats); err != nil {
		return nil, duplicate(err)
	}
	return p, nil
}

// DeleteProduct removes the product with its variants and their images.
func (s *StoreService) DeleteProduct(ctx context.Context, id uint) error {
	vs, err := s.variants.ForProducts([]uint{id})
	if err != nil {
		return err
	}
	var keys []string
	for _, v := range vs {
		imgs, err := s.images.ListByVariant(v.ID)
		if err != nil {
			return err
		}
		for _, img := range imgs {
			keys = append(keys, img.Image)
		}
	}
	if err := s.products.Delete(id); err != nil {
		return err
	}
	for _, k := range keys {
		discard(ctx, s.store, k)
	}
	return nil
}

func (s *StoreService) applyProduct(p *models.Product, in ProductInput) ([]models.Category, error) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setID := func(dst *uint, src *uint) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&p.Name, in.Name)
	setStr(&p.Description, in.Description)
	setStr(&p.ReturnPolicy, in.ReturnPolicy)
	setStr(&p.ExchangePolicy, in.ExchangePolicy)
	setStr(&p.Slug, in.Slug)
	setBool(&p.Exclusive, in.Exclusive)
	setBool(&p.PayOnDelivery, in.PayOnDelivery)
	setBool(&p.QualityChecked, in.QualityChecked)
	setID(&p.PatternID, in.PatternID)
	setID(&p.FabricID, in.FabricID)
	setID(&p.ShapeID, in.ShapeID)
	setID(&p.LengthID, in.LengthID)
	setID(&p.NeckID, in.NeckID)
	setID(&p.SleeveLengthID, in.SleeveLengthID)
	if in.Instructions != nil {
		p.Instructions = in.Instructions
	}
	if in.WashCare != nil {
		p.WashCare = in.WashCare
	}
	if in.ClearBasePrice {
		p.BasePrice = decimal.NullDecimal{}
	}
	if in.BasePrice != nil {
		price := in.BasePrice.Round(2)
		if price.IsNegative() || price.GreaterThan(maxBasePrice) {
			return nil, ErrInvalidPrice
		}
		p.BasePrice = decimal.NewNullDecimal(price)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", p.Name},
		{"description", p.Description},
		{"return_policy", p.ReturnPolicy},
		{"exchange_policy", p.ExchangePolicy},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	ok, err := s.products.TermsExist(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: pattern, fabric, shape, length, neck and sleeve length are required", ErrInvalidReference)
	}
	p.Pattern, p.Fabric, p.Shape, p.Length, p.Neck, p.SleeveLength = nil, nil, nil, nil, nil, nil

	if in.CategoryIDs == nil {
		return nil, nil
	}
	ids := unique(*in.CategoryIDs)
	cats, err := s.categories.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, fmt.Errorf("%w: category", ErrInvalidReference)
	}
	return cats, nil
}

type VariantInput struct {
	ProductID       *uint
	VariantName     *string
	ColorIDs        *[]uint
	SizeID          *uint
	ClearSize       bool
	OfferPercentage *int
	StockCount      *int
	SKU             *string
	Slug            *string
	IsActive        *bool
}

// VariantView is a variant with its computed offer price. OfferPrice is nil
// when the product has no base price.
type VariantView struct {
	models.ProductVariant
	BasePrice  *decimal.Decimal `json:"base_price"`
	OfferPrice *decimal.Decimal `json:"offer_price"`
}

// NewVariantView prices v using its loaded product.
func NewVariantView(v models.ProductVariant) VariantView {
	view := VariantView{ProductVariant: v}
	if v.Product != nil && v.Product.BasePrice.Valid {
		base := v.Product.BasePrice.Decimal
		view.BasePrice = &base
	}
	if price, err := v.OfferPrice(); err == nil {
		view.OfferPrice = &price
	}
	return view
}

func (s *StoreService) ListVariants(q repository.ListQuery) ([]VariantView, int64, error) {
	vs, total, err := s.variants.List(q)
	if err != nil {
		return nil, 0, err
	}
	views := make([]VariantView, len(vs))
	for i, v := range vs {
		views[i] = NewVariantView(v)
	}
	return views, total, nil
}

func (s *StoreService) GetVariant(id uint) (*VariantView, error) {
	v, err := s.variants.GetByID(id)
	if err != nil {
		return nil, err
	}
	view := NewVariantView(*v)
	return &view, nil
}

func (s *StoreService) CreateVariant(in VariantInput) (*models.ProductVariant, error) {
	v := &models.ProductVariant{IsActive: true}
	colors, err := s.applyVariant(v, in)
	if err != nil {
		return nil, err
	}
	if err := s.variants.CreateWithColors(v, colors); err != nil {
		return nil, duplicate(err)
	}
	log.Printf("[store] created variant %d (%s) for product %d", v.ID, v.SKU, v.ProductID)
	return v, nil
}

func (s *StoreService) UpdateVariant(id uint, in VariantInput) (*models.ProductVariant, error) {
	v, err := s.variants.GetByID(id)
	if err != nil {
		return nil, err
	}
	colors, err := s.applyVariant(v, in)
	if err != nil {
		return nil, err
	}
	if in.ColorIDs == nil {
		colors = v.Colors
	}
	v.Images, v.SizeAttributes = nil, nil
	if err := s.variants.UpdateWithColors(v, colors); err != nil {
		return nil, duplicate(err)
	}
	return v, nil
}

func (s *StoreService) DeleteVariant(ctx context.Context, id uint) error {
	imgs, err := s.images.ListByVariant(id)
	if err != nil {
		return err
	}
	if err := s.variants.DeleteRated(id); err != nil {
		return err
	}
	for _, img := range imgs {
		discard(ctx, s.store, img.Image)
	}
	return nil
}

func (s *StoreService) applyVariant(v *models.ProductVariant, in VariantInput) ([]models.Color, error) {
	if in.ProductID != nil {
		v.ProductID = *in.ProductID
	}
	if in.VariantName != nil {
		v.VariantName = strings.TrimSpace(*in.VariantName)
	}
	if in.SKU != nil {
		v.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Slug != nil {
		v.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	if in.OfferPercentage != nil {
		pct := *in.OfferPercentage
		if pct < domain.MinOfferPercentage || pct > domain.MaxOfferPercentage {
			return nil, ErrOfferOutOfRange
		}
		v.OfferPercentage = pct
	}
	if in.StockCount != nil {
		if *in.StockCount < 0 {
			return nil, ErrInvalidStock
		}
		v.StockCount = *in.StockCount
	}
	if in.ClearSize {
		v.SizeID, v.Size = nil, nil
	}
	if in.SizeID != nil {
		size, err := s.sizes.GetByID(*in.SizeID)
		if err != nil {
			return nil, fmt.Errorf("%w: size", ErrInvalidReference)
		}
		v.SizeID, v.Size = &size.ID, size
	}
	if v.VariantName == "" || v.SKU == "" {
		return nil, fmt.Errorf("%w: variant_name, sku", ErrMissingFields)
	}
	product, err := s.products.GetByID(v.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: product", ErrInvalidReference)
	}
	v.Product = product

	exists, err := s.variants.Exists(v.ProductID, v.VariantName, v.SizeID, v.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVariantExists
	}

	if in.ColorIDs == nil {
		return nil, nil
	}
	ids := unique(*in.ColorIDs)
	colors, err := s.colors.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(colors) != len(ids) {
		return nil, fmt.Errorf("%w: color", ErrInvalidReference)
	}
	return colors, nil
}

func (s *StoreService) ListImages(q repository.ListQuery) ([]models.ProductVariantImage, int64, error) {
	return s.images.List(q)
}

// AddImages stores uploads for a variant. primary is the index of the upload
// to mark primary, or -1. A variant's first image becomes primary on its own.
func (s *StoreService) AddImages(ctx context.Context, variantID uint, uploads []Upload, primary int) ([]models.ProductVariantImage, error) {
	if len(uploads) == 0 {
		return nil, ErrImageRequired
	}
	if _, err := s.variants.GetByID(variantID); err != nil {
		return nil, err
	}
	count, err := s.images.CountByVariant(variantID)
	if err != nil {
		return nil, err
	}
	if count+int64(len(uploads)) > domain.MaxImagesPerVariant {
		return nil, ErrImageLimit
	}
	if count == 0 && (primary < 0 || primary >= len(uploads)) {
		primary = 0
	}
	imgs := make([]models.ProductVariantImage, 0, len(uploads))
	for i, up := range uploads {
		obj, err := s.store.Save(ctx, domain.FolderVariantImages, up.Filename, up.Body, up.ContentType)
		if err != nil {
			for _, img := range imgs {
				discard(ctx, s.store, img.Image)
			}
			return nil, err
		}
		imgs = append(imgs, models.ProductVariantImage{
			VariantID: variantID,
			Image:     obj.Key,
			ImageURL:  obj.URL,
			IsPrimary: i == primary,
		})
	}
	if err := s.images.CreateBatch(imgs); err != nil {
		for _, img := range imgs {
			discard(ctx, s.store, img.Image)
		}
		return nil, err
	}
	return imgs, nil
}

// MarkPrimary makes each selected image the only primary image of its variant.
func (s *StoreService) MarkPrimary(ids []uint) ([]models.ProductVariantImage, error) {
	if len(ids) == 0 {
		return nil, ErrNoImages
	}
	return s.images.MarkPrimary(unique(ids))
}

// RemoveImages deletes the selected images and their stored files and returns
// how many rows went away.
func (s *StoreService) RemoveImages(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoImages
	}
	removed, err := s.images.DeleteMany(unique(ids))
	if err != nil {
		return 0, err
	}
	for _, img := range removed {
		discard(ctx, s.store, img.Image)
	}
	return len(removed), nil
}

type MeasurementInput struct {
	SizeID           *uint
	ProductVariantID *uint
	AttributeID      *uint
	Centimeter       *float64
	Inch             *string
}

func (s *StoreService) ListMeasurements(q repository.ListQuery) ([]models.ProductSizeAttribute, int64, error) {
	return s.measures.List(q)
}

func (s *StoreService) GetMeasurement(id uint) (*models.ProductSizeAttribute, error) {
	return s.measures.GetByID(id)
}

func (s *StoreService) SaveMeasurement(id uint, in MeasurementInput) (*models.ProductSizeAttribute, error) {
	m := &models.ProductSizeAttribute{}
	if id != 0 {
		var err error
		if m, err = s.measures.GetByID(id); err != nil {
			return nil, err
		}
		m.Size, m.ProductVariant, m.Attribute = nil, nil, nil
	}
	if in.SizeID != nil {
		m.SizeID = *in.SizeID
	}
	if in.ProductVariantID != nil {
		m.ProductVariantID = *in.ProductVariantID
	}
	if in.AttributeID != nil {
		m.AttributeID = *in.AttributeID
	}
	if in.Centimeter != nil {
		m.Centimeter = *in.Centimeter
	}
	if in.Inch != nil {
		m.Inch = strings.TrimSpace(*in.Inch)
	}
	if m.Inch == "" {
		return nil, fmt.Errorf("%w: inch", ErrMissingFields)
	}
	if _, err := s.sizes.GetByID(m.SizeID); err != nil {
		return nil, fmt.Errorf("%w: size", ErrInvalidReference)
	}
	if _, err := s.variants.GetByID(m.ProductVariantID); err != nil {
		return nil, fmt.Errorf("%w: product_variant", ErrInvalidReference)
	}
	if _, err := s.attributes.GetByID(m.AttributeID); err != nil {
		return nil, fmt.Errorf("%w: attribute", ErrInvalidReference)
	}
	var err error
	if id == 0 {
		err = s.measures.Create(m)
	} else {
		err = s.measures.Update(m)
	}
	if err != nil {
		return nil, duplicate(err)
	}
	return m, nil
}

func (s *StoreService) DeleteMeasurement(id uint) error {
	return s.measures.Delete(id)
}

func unique(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
