package service

import (
	"boutique/internal/models"
	"boutique/internal/repository"
)

// StorefrontItem is one product card: the product, its first variant in
// default order and that variant's primary image. Variant and image are nil
// when absent.
type StorefrontItem struct {
	Product      models.Product              `json:"product"`
	FirstVariant *VariantView                `json:"first_variant"`
	PrimaryImage *models.ProductVariantImage `json:"primary_image"`
}

type StorefrontService struct {
	products *repository.ProductRepository
	variants *repository.VariantRepository
	images   *repository.VariantImageRepository
}

func NewStorefrontService(products *repository.ProductRepository, variants *repository.VariantRepository, images *repository.VariantImageRepository) *StorefrontService {
	return &StorefrontService{products: products, variants: variants, images: images}
}

// Listing returns every product ordered by name with its first variant and
// primary image, using three queries regardless of catalog size.
func (s *StorefrontService) Listing() ([]StorefrontItem, error) {
	products, err := s.products.All()
	if err != nil {
		return nil, err
	}
	items := make([]StorefrontItem, len(products))
	if len(products) == 0 {
		return items, nil
	}

	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	variants, err := s.variants.ForProducts(ids)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint][]models.ProductVariant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	first := make(map[uint]models.ProductVariant, len(byProduct))
	firstIDs := make([]uint, 0, len(byProduct))
	for pid, vs := range byProduct {
		models.SortVariants(vs)
		first[pid] = vs[0]
		firstIDs = append(firstIDs, vs[0].ID)
	}
	primaries, err := s.images.PrimaryForVariants(firstIDs)
	if err != nil {
		return nil, err
	}

	for i, p := range products {
		items[i].Product = p
		v, ok := first[p.ID]
		if !ok {
			continue
		}
		product := p
		v.Product = &product
		view := NewVariantView(v)
		view.Product = nil
		items[i].FirstVariant = &view
		if img, ok := primaries[v.ID]; ok {
			items[i].PrimaryImage = &img
		}
	}
	return items, nil
}
