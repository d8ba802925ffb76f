package service

import (
	"context"
	"fmt"
	"testing"

	"boutique/internal/domain"
	"boutique/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	women, err := e.catalog.CreateCategory(ctx, CategoryInput{Name: ptr("Women")}, nil)
	require.NoError(t, err)

	in := e.productInput("Anarkali Kurta", "1299.999")
	in.CategoryIDs = &[]uint{women.ID, women.ID}
	p, err := e.shop.CreateProduct(in)
	require.NoError(t, err)
	assert.Equal(t, "anarkali-kurta", p.Slug)
	assert.Equal(t, "1300", p.BasePrice.Decimal.String())

	again, err := e.shop.CreateProduct(e.productInput("Anarkali Kurta", ""))
	require.NoError(t, err)
	assert.Equal(t, "anarkali-kurta-2", again.Slug)
	assert.False(t, again.BasePrice.Valid)

	got, err := e.shop.GetProduct(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.NotNil(t, got.Pattern)

	updated, err := e.shop.UpdateProduct(p.ID, ProductInput{Exclusive: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Exclusive)
	assert.Len(t, updated.Categories, 1, "categories are kept when not sent")
}

func TestCreateProductValidation(t *testing.T) {
	e := newEnv(t)

	in := e.productInput("", "10")
	_, err := e.shop.CreateProduct(in)
	assert.ErrorIs(t, err, ErrMissingFields)

	in = e.productInput("Kurta", "-1")
	_, err = e.shop.CreateProduct(in)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	in = e.productInput("Kurta", "10")
	in.FabricID = ptr(uint(9999))
	_, err = e.shop.CreateProduct(in)
	assert.ErrorIs(t, err, ErrInvalidReference)

	in = e.productInput("Kurta", "10")
	in.CategoryIDs = &[]uint{9999}
	_, err = e.shop.CreateProduct(in)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestCreateVariant(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Anarkali", "200")
	xl := e.size(t, "XL")

	v := e.variant(t, p.ID, "Red", "RED-XL", &xl.ID)
	assert.Equal(t, "red-xl", v.Slug)
	assert.True(t, v.IsActive)
	assert.Zero(t, v.OfferPercentage)

	plain := e.variant(t, p.ID, "Red", "RED", nil)
	assert.Equal(t, "red", plain.Slug)

	tests := []struct {
		name string
		in   VariantInput
		want error
	}{
		{"same name and size", VariantInput{ProductID: &p.ID, VariantName: ptr("Red"), SKU: ptr("RED-XL-2"), SizeID: &xl.ID}, ErrVariantExists},
		{"same name without size", VariantInput{ProductID: &p.ID, VariantName: ptr("Red"), SKU: ptr("RED-2")}, ErrVariantExists},
		{"offer above range", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue"), SKU: ptr("BLUE"), OfferPercentage: ptr(100)}, ErrOfferOutOfRange},
		{"offer below range", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue"), SKU: ptr("BLUE"), OfferPercentage: ptr(-1)}, ErrOfferOutOfRange},
		{"negative stock", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue"), SKU: ptr("BLUE"), StockCount: ptr(-3)}, ErrInvalidStock},
		{"unknown product", VariantInput{ProductID: ptr(uint(9999)), VariantName: ptr("Blue"), SKU: ptr("BLUE")}, ErrInvalidReference},
		{"unknown size", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue"), SKU: ptr("BLUE"), SizeID: ptr(uint(9999))}, ErrInvalidReference},
		{"unknown color", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue"), SKU: ptr("BLUE"), ColorIDs: &[]uint{9999}}, ErrInvalidReference},
		{"missing sku", VariantInput{ProductID: &p.ID, VariantName: ptr("Blue")}, ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.shop.CreateVariant(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Updating a variant to its own name and size is not a clash.
	_, err := e.shop.UpdateVariant(v.ID, VariantInput{VariantName: ptr("Red"), StockCount: ptr(9)})
	require.NoError(t, err)
	_, err = e.shop.UpdateVariant(v.ID, VariantInput{ClearSize: true})
	assert.ErrorIs(t, err, ErrVariantExists)
}

func TestVariantOfferPrice(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Anarkali", "200.00")
	v, err := e.shop.CreateVariant(VariantInput{
		ProductID: &p.ID, VariantName: ptr("Red"), SKU: ptr("RED"), OfferPercentage: ptr(25), StockCount: ptr(1),
	})
	require.NoError(t, err)

	view, err := e.shop.GetVariant(v.ID)
	require.NoError(t, err)
	require.NotNil(t, view.OfferPrice)
	assert.True(t, decimal.NewFromInt(150).Equal(*view.OfferPrice))
	assert.True(t, decimal.NewFromInt(200).Equal(*view.BasePrice))

	free := e.product(t, "Dupatta", "")
	fv := e.variant(t, free.ID, "Plain", "PLAIN", nil)
	view, err = e.shop.GetVariant(fv.ID)
	require.NoError(t, err)
	assert.Nil(t, view.OfferPrice)

	views, total, err := e.shop.ListVariants(repository.ListQuery{Search: "red"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.True(t, decimal.NewFromInt(150).Equal(*views[0].OfferPrice))
}

func TestProductDetail(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Anarkali", "200.00")
	m := e.size(t, "M")
	e.variant(t, p.ID, "Red", "RED-M", &m.ID)
	_, err := e.shop.CreateVariant(VariantInput{
		ProductID: &p.ID, VariantName: ptr("Red"), SKU: ptr("RED"), OfferPercentage: ptr(10), StockCount: ptr(1),
	})
	require.NoError(t, err)

	d, err := e.shop.ProductDetail(p.Slug)
	require.NoError(t, err)
	require.Len(t, d.Variants, 2)
	assert.Equal(t, "RED", d.Variants[0].SKU)
	assert.True(t, decimal.NewFromInt(180).Equal(*d.Variants[0].OfferPrice))
	assert.Equal(t, "RED-M", d.Variants[1].SKU)
	assert.Nil(t, d.Variants[0].Product)
	assert.Nil(t, d.Product.Variants)

	_, err = e.shop.ProductDetail("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVariantColors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Anarkali", "200")
	red, err := e.catalog.CreateColor(ctx, ColorInput{Name: ptr("Red")}, pngUpload(t, "r.png", 4, 4))
	require.NoError(t, err)
	blue, err := e.catalog.CreateColor(ctx, ColorInput{Name: ptr("Blue")}, pngUpload(t, "b.png", 4, 4))
	require.NoError(t, err)

	v, err := e.shop.CreateVariant(VariantInput{ProductID: &p.ID, VariantName: ptr("Duo"), SKU: ptr("DUO"), ColorIDs: &[]uint{red.ID, blue.ID}})
	require.NoError(t, err)
	view, err := e.shop.GetVariant(v.ID)
	require.NoError(t, err)
	assert.Len(t, view.Colors, 2)

	_, err = e.shop.UpdateVariant(v.ID, VariantInput{ColorIDs: &[]uint{blue.ID}})
	require.NoError(t, err)
	view, err = e.shop.GetVariant(v.ID)
	require.NoError(t, err)
	require.Len(t, view.Colors, 1)
	assert.Equal(t, "Blue", view.Colors[0].Name)
}

func TestAddImages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Anarkali", "200")
	v := e.variant(t, p.ID, "Red", "RED", nil)

	imgs, err := e.shop.AddImages(ctx, v.ID, []Upload{fileUpload("a.jpg"), fileUpload("b.jpg")}, -1)
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.True(t, imgs[0].IsPrimary, "first image of a variant becomes primary")
	assert.False(t, imgs[1].IsPrimary)
	assert.Regexp(t, `^product_variant_images/.+\.jpg$`, imgs[0].Image)

	more, err := e.shop.AddImages(ctx, v.ID, []Upload{fileUpload("c.jpg")}, 0)
	require.NoError(t, err)
	assert.True(t, more[0].IsPrimary)

	all, _, err := e.shop.ListImages(repository.ListQuery{Filters: map[string]string{"is_primary": "true"}})
	require.NoError(t, err)
	require.Len(t, all, 1, "only one primary image per variant")
	assert.Equal(t, more[0].ID, all[0].ID)

	var batch []Upload
	for i := 0; i < domain.MaxImagesPerVariant-3+1; i++ {
		batch = append(batch, fileUpload(fmt.Sprintf("%d.jpg", i)))
	}
	_, err = e.shop.AddImages(ctx, v.ID, batch, -1)
	assert.ErrorIs(t, err, ErrImageLimit)
	assert.Equal(t, 3, e.store.Len(), "nothing stored when over the limit")

	_, err = e.shop.AddImages(ctx, v.ID, batch[:domain.MaxImagesPerVariant-3], -1)
	require.NoError(t, err)

	_, err = e.shop.AddImages(ctx, 9999, []Upload{fileUpload("x.jpg")}, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPrimaryAndRemoveImages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Anarkali", "200")
	v := e.variant(t, p.ID, "Red", "RED", nil)
	imgs, err := e.shop.AddImages(ctx, v.ID, []Upload{fileUpload("a.jpg"), fileUpload("b.jpg"), fileUpload("c.jpg")}, 0)
	require.NoError(t, err)

	chosen, err := e.shop.MarkPrimary([]uint{imgs[1].ID})
	require.NoError(t, err)
	require.Len(t, chosen, 1)
	primaries, _, err := e.shop.ListImages(repository.ListQuery{Filters: map[string]string{"is_primary": "1"}})
	require.NoError(t, err)
	require.Len(t, primaries, 1)
	assert.Equal(t, imgs[1].ID, primaries[0].ID)

	_, err = e.shop.MarkPrimary(nil)
	assert.ErrorIs(t, err, ErrNoImages)

	n, err := e.shop.RemoveImages(ctx, []uint{imgs[0].ID, imgs[2].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, e.store.Len())
	_, _, ok := e.store.Get(imgs[1].Image)
	assert.True(t, ok)
}

func TestDeleteProductCleansUpImages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Anarkali", "200")
	v := e.variant(t, p.ID, "Red", "RED", nil)
	_, err := e.shop.AddImages(ctx, v.ID, []Upload{fileUpload("a.jpg")}, -1)
	require.NoError(t, err)

	require.NoError(t, e.shop.DeleteProduct(ctx, p.ID))
	assert.Zero(t, e.store.Len())
	_, err = e.shop.GetVariant(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMeasurements(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Anarkali", "200")
	xl := e.size(t, "XL")
	v := e.variant(t, p.ID, "Red", "RED", &xl.ID)
	waist, err := e.catalog.SaveSizeAttribute(0, "Waist", nil)
	require.NoError(t, err)

	m, err := e.shop.SaveMeasurement(0, MeasurementInput{
		SizeID: &xl.ID, ProductVariantID: &v.ID, AttributeID: &waist.ID,
		Centimeter: ptr(81.28), Inch: ptr("32"),
	})
	require.NoError(t, err)

	m, err = e.shop.SaveMeasurement(m.ID, MeasurementInput{Inch: ptr("32.5")})
	require.NoError(t, err)
	assert.Equal(t, "32.5", m.Inch)
	assert.InDelta(t, 81.28, m.Centimeter, 1e-9)

	_, err = e.shop.SaveMeasurement(0, MeasurementInput{
		SizeID: &xl.ID, ProductVariantID: &v.ID, AttributeID: ptr(uint(9999)), Inch: ptr("1"),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	list, total, err := e.shop.ListMeasurements(repository.ListQuery{Search: "waist"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Waist", list[0].Attribute.Name)

	require.NoError(t, e.shop.DeleteMeasurement(m.ID))
}
