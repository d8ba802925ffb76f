package models

import (
	"testing"

	"boutique/internal/database/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestApplyOffer(t *testing.T) {
	testCases := []struct {
		name    string
		base    decimal.NullDecimal
		pct     int
		want    string
		wantErr error
	}{
		{name: "quarter off", base: price("200.00"), pct: 25, want: "150"},
		{name: "no offer", base: price("19.99"), pct: 0, want: "19.99"},
		{name: "max offer", base: price("100.00"), pct: 99, want: "1"},
		{name: "fractional cents are kept", base: price("19.99"), pct: 25, want: "14.9925"},
		{name: "missing base price", base: decimal.NullDecimal{}, pct: 10, wantErr: ErrBasePriceMissing},
		{name: "hundred percent", base: price("10.00"), pct: 100, wantErr: ErrOfferOutOfRange},
		{name: "negative percent", base: price("10.00"), pct: -1, wantErr: ErrOfferOutOfRange},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyOffer(tc.base, tc.pct)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestApplyOfferStaysWithinBasePrice(t *testing.T) {
	for _, b := range []string{"0.00", "0.01", "1.00", "19.99", "200.00", "99999999.99"} {
		base := price(b)
		for pct := 0; pct <= 99; pct++ {
			got, err := ApplyOffer(base, pct)
			require.NoError(t, err)
			assert.False(t, got.IsNegative(), "base %s pct %d", b, pct)
			assert.True(t, got.LessThanOrEqual(base.Decimal), "base %s pct %d", b, pct)
		}
	}
}

func TestVariantOfferPrice(t *testing.T) {
	v := &ProductVariant{OfferPercentage: 25, Product: &Product{BasePrice: price("200.00")}}
	got, err := v.OfferPrice()
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.StringFixed(2))

	_, err = (&ProductVariant{OfferPercentage: 25}).OfferPrice()
	assert.ErrorIs(t, err, ErrBasePriceMissing)
}

func TestVariantSlugSource(t *testing.T) {
	assert.Equal(t, "Red Kurta", VariantSlugSource("Red Kurta", ""))
	assert.Equal(t, "Red Kurta - XL", VariantSlugSource("Red Kurta", "XL"))
}

func storeDB(t *testing.T) *gorm.DB {
	return dbtest.Open(t,
		&Category{}, &Fabric{}, &Pattern{}, &Shape{}, &Neck{}, &Length{}, &SleeveLength{},
		&Color{}, &Size{}, &SizeAttribute{},
		&Product{}, &ProductVariant{}, &ProductVariantImage{}, &ProductSizeAttribute{},
	)
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *Product {
	t.Helper()
	pattern := &Pattern{UniqueTerm{Name: "Floral " + name}}
	fabric := &Fabric{UniqueTerm{Name: "Cotton " + name}}
	shape := &Shape{Term{Name: "A-Line"}}
	length := &Length{Term{Name: "Knee"}}
	neck := &Neck{Term{Name: "Round"}}
	sleeve := &SleeveLength{Term{Name: "Short"}}
	for _, row := range []any{pattern, fabric, shape, length, neck, sleeve} {
		require.NoError(t, db.Create(row).Error)
	}
	p := &Product{
		Name:           name,
		Description:    "test product",
		BasePrice:      price("200.00"),
		ReturnPolicy:   "7 days",
		ExchangePolicy: "exchange only",
		PatternID:      pattern.ID,
		FabricID:       fabric.ID,
		ShapeID:        shape.ID,
		LengthID:       length.ID,
		NeckID:         neck.ID,
		SleeveLengthID: sleeve.ID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestProductSlugIsUnique(t *testing.T) {
	db := storeDB(t)
	first := seedProduct(t, db, "Anarkali Kurta")
	second := seedProduct(t, db, "Anarkali  Kurta")
	assert.Equal(t, "anarkali-kurta", first.Slug)
	assert.Equal(t, "anarkali-kurta-2", second.Slug)
}

func TestVariantSlugFromNameAndSize(t *testing.T) {
	db := storeDB(t)
	p := seedProduct(t, db, "Kurta")
	q := seedProduct(t, db, "Tunic")
	xl := &Size{Name: "XL", Code: "XL"}
	require.NoError(t, db.Create(xl).Error)

	withSize := &ProductVariant{ProductID: p.ID, VariantName: "Red", SizeID: &xl.ID, StockCount: 3, SKU: "KUR-RED-XL", IsActive: true}
	require.NoError(t, db.Create(withSize).Error)
	assert.Equal(t, "red-xl", withSize.Slug)

	clash := &ProductVariant{ProductID: q.ID, VariantName: "Red", Size: xl, SizeID: &xl.ID, StockCount: 1, SKU: "TUN-RED-XL"}
	require.NoError(t, db.Omit("Size").Create(clash).Error)
	assert.Equal(t, "red-xl-2", clash.Slug)

	noSize := &ProductVariant{ProductID: p.ID, VariantName: "Red", StockCount: 1, SKU: "KUR-RED"}
	require.NoError(t, db.Create(noSize).Error)
	assert.Equal(t, "red", noSize.Slug)

	preset := &ProductVariant{ProductID: p.ID, VariantName: "Blue", StockCount: 1, SKU: "KUR-BLUE", Slug: "custom-blue"}
	require.NoError(t, db.Create(preset).Error)
	assert.Equal(t, "custom-blue", preset.Slug)
}

func TestVariantUniqueIndexRejectsDuplicates(t *testing.T) {
	db := storeDB(t)
	p := seedProduct(t, db, "Kurta")
	m := &Size{Name: "M", Code: "M"}
	require.NoError(t, db.Create(m).Error)

	require.NoError(t, db.Create(&ProductVariant{ProductID: p.ID, VariantName: "Red", SizeID: &m.ID, StockCount: 1, SKU: "A"}).Error)
	err := db.Create(&ProductVariant{ProductID: p.ID, VariantName: "Red", SizeID: &m.ID, StockCount: 1, SKU: "B"}).Error
	assert.Error(t, err)
}

func TestCategorySlugFromName(t *testing.T) {
	db := storeDB(t)
	c := &Category{Name: "Women Ethnic Wear", IsActive: true}
	require.NoError(t, db.Create(c).Error)
	assert.Equal(t, "women-ethnic-wear", c.Slug)

	preset := &Category{Name: "Kids", Slug: "little-ones", IsActive: true}
	require.NoError(t, db.Create(preset).Error)
	assert.Equal(t, "little-ones", preset.Slug)

	for _, want := range []string{"category", "category-2"} {
		symbols := &Category{Name: "!!!", IsActive: true}
		require.NoError(t, db.Create(symbols).Error)
		assert.Equal(t, want, symbols.Slug)
	}
}

func TestSortVariants(t *testing.T) {
	m := &Size{Name: "M"}
	l := &Size{Name: "L"}
	vs := []ProductVariant{
		{ID: 1, Size: m},
		{ID: 2, Size: l},
		{ID: 5},
		{ID: 3},
		{ID: 4, Size: l},
	}
	SortVariants(vs)
	ids := make([]uint, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	assert.Equal(t, []uint{3, 5, 2, 4, 1}, ids)
}
