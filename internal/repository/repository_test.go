package repository

import (
	"fmt"
	"testing"

	"boutique/internal/database"
	"boutique/internal/database/dbtest"
	"boutique/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t, database.Models()...)
}

type fixture struct {
	db      *gorm.DB
	pattern models.Pattern
	fabric  models.Fabric
	product models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openDB(t)
	f := &fixture{db: db}
	f.pattern = models.Pattern{UniqueTerm: models.UniqueTerm{Name: "Floral"}}
	f.fabric = models.Fabric{UniqueTerm: models.UniqueTerm{Name: "Cotton"}}
	shape := models.Shape{Term: models.Term{Name: "A-Line"}}
	length := models.Length{Term: models.Term{Name: "Ankle"}}
	neck := models.Neck{Term: models.Term{Name: "Round"}}
	sleeve := models.SleeveLength{Term: models.Term{Name: "Three Quarter"}}
	for _, v := range []any{&f.pattern, &f.fabric, &shape, &length, &neck, &sleeve} {
		require.NoError(t, db.Create(v).Error)
	}
	f.product = models.Product{
		Name:           "Anarkali Kurta",
		Description:    "Flared kurta",
		BasePrice:      decimal.NewNullDecimal(decimal.NewFromInt(200)),
		ReturnPolicy:   "7 days",
		ExchangePolicy: "7 days",
		PatternID:      f.pattern.ID,
		FabricID:       f.fabric.ID,
		ShapeID:        shape.ID,
		LengthID:       length.ID,
		NeckID:         neck.ID,
		SleeveLengthID: sleeve.ID,
	}
	require.NoError(t, db.Create(&f.product).Error)
	return f
}

func (f *fixture) variant(t *testing.T, name, sku string, size *models.Size) models.ProductVariant {
	t.Helper()
	v := models.ProductVariant{ProductID: f.product.ID, VariantName: name, SKU: sku, IsActive: true, StockCount: 5}
	if size != nil {
		v.SizeID = &size.ID
	}
	require.NoError(t, f.db.Create(&v).Error)
	return v
}

func (f *fixture) image(t *testing.T, variantID uint, primary bool) models.ProductVariantImage {
	t.Helper()
	img := models.ProductVariantImage{VariantID: variantID, Image: fmt.Sprintf("product_variant_images/%d.jpg", variantID), IsPrimary: primary}
	require.NoError(t, f.db.Create(&img).Error)
	return img
}

func TestUserListSearchFilterPaginate(t *testing.T) {
	db := openDB(t)
	repo := NewUserRepository(db)
	for i := 0; i < 5; i++ {
		u := &models.User{
			Username:      fmt.Sprintf("shopper%d", i),
			Email:         fmt.Sprintf("shopper%d@example.com", i),
			PhoneNumber:   fmt.Sprintf("+91987654321%d", i),
			IsActive:      true,
			SendPromoMail: i%2 == 0,
		}
		require.NoError(t, repo.Create(u))
	}
	require.NoError(t, repo.Create(&models.User{Username: "boss", Email: "boss@example.com", PhoneNumber: "+919000000000", IsStaff: true}))

	tests := []struct {
		name  string
		query ListQuery
		total int64
		count int
	}{
		{"all", ListQuery{}, 6, 6},
		{"search is case insensitive", ListQuery{Search: "SHOPPER"}, 5, 5},
		{"search by phone", ListQuery{Search: "9000000000"}, 1, 1},
		{"bool filter", ListQuery{Filters: map[string]string{"send_promo_mail": "true"}}, 3, 3},
		{"staff filter", ListQuery{Filters: map[string]string{"is_staff": "1"}}, 1, 1},
		{"unknown filter ignored", ListQuery{Filters: map[string]string{"role": "ADMIN"}}, 6, 6},
		{"bad bool ignored", ListQuery{Filters: map[string]string{"is_staff": "maybe"}}, 6, 6},
		{"second page", ListQuery{Page: 2, Limit: 4}, 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, users, tt.count)
		})
	}
}

func TestUserLookups(t *testing.T) {
	repo := NewUserRepository(openDB(t))
	u := &models.User{Username: "asha", Email: "asha@example.com", PhoneNumber: "+919876543210", IsActive: true, SendPromoMail: true}
	require.NoError(t, repo.Create(u))

	got, err := repo.GetByLogin("asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	taken, err := repo.Taken("phone_number", "+919876543210", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.Taken("phone_number", "+919876543210", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	recipients, err := repo.PromoRecipients()
	require.NoError(t, err)
	assert.Len(t, recipients, 1)

	assert.ErrorIs(t, repo.Delete(9999), ErrNotFound)
}

func TestTermDeleteIsProtected(t *testing.T) {
	f := newFixture(t)
	patterns := NewTermRepository[models.Pattern](f.db, "pattern_id")

	assert.ErrorIs(t, patterns.Delete(f.pattern.ID), ErrProtected)

	unused := models.Pattern{UniqueTerm: models.UniqueTerm{Name: "Striped"}}
	require.NoError(t, patterns.Create(&unused))
	require.NoError(t, patterns.Delete(unused.ID))

	all, err := patterns.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Floral", all[0].Name)
}

func TestVariantExistsTreatsNullSizeAsValue(t *testing.T) {
	f := newFixture(t)
	repo := NewVariantRepository(f.db)
	size := models.Size{Name: "XL", Code: "XL"}
	require.NoError(t, f.db.Create(&size).Error)

	plain := f.variant(t, "Red", "SKU-1", nil)
	f.variant(t, "Red", "SKU-2", &size)

	exists, err := repo.Exists(f.product.ID, "Red", nil, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(f.product.ID, "Red", nil, plain.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a variant does not clash with itself")

	exists, err = repo.Exists(f.product.ID, "Red", &size.ID, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(f.product.ID, "Blue", &size.ID, 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVariantColorsAndFilter(t *testing.T) {
	f := newFixture(t)
	repo := NewVariantRepository(f.db)
	red := models.Color{Name: "Red", Image: "color_images/red.png"}
	blue := models.Color{Name: "Blue", Image: "color_images/blue.png"}
	require.NoError(t, f.db.Create(&red).Error)
	require.NoError(t, f.db.Create(&blue).Error)

	v := &models.ProductVariant{ProductID: f.product.ID, VariantName: "Sunset", SKU: "SUN-1", IsActive: true}
	require.NoError(t, repo.CreateWithColors(v, []models.Color{red}))
	require.NoError(t, repo.UpdateWithColors(v, []models.Color{blue}))

	got, err := repo.GetByID(v.ID)
	require.NoError(t, err)
	require.Len(t, got.Colors, 1)
	assert.Equal(t, "Blue", got.Colors[0].Name)
	assert.Equal(t, f.product.ID, got.Product.ID)

	list, total, err := repo.List(ListQuery{Filters: map[string]string{"color": fmt.Sprint(blue.ID)}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, v.ID, list[0].ID)

	_, total, err = repo.List(ListQuery{Filters: map[string]string{"color": fmt.Sprint(red.ID)}})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMarkPrimaryResetsSiblings(t *testing.T) {
	f := newFixture(t)
	repo := NewVariantImageRepository(f.db)
	v := f.variant(t, "Red", "SKU-1", nil)
	first := f.image(t, v.ID, true)
	second := f.image(t, v.ID, false)
	third := f.image(t, v.ID, false)

	chosen, err := repo.MarkPrimary([]uint{second.ID, third.ID})
	require.NoError(t, err)
	require.Len(t, chosen, 1)
	assert.Equal(t, third.ID, chosen[0].ID)

	imgs, err := repo.ListByVariant(v.ID)
	require.NoError(t, err)
	primary := map[uint]bool{}
	for _, img := range imgs {
		primary[img.ID] = img.IsPrimary
	}
	assert.Equal(t, map[uint]bool{first.ID: false, second.ID: false, third.ID: true}, primary)

	_, err = repo.MarkPrimary([]uint{9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBatchKeepsSinglePrimary(t *testing.T) {
	f := newFixture(t)
	repo := NewVariantImageRepository(f.db)
	v := f.variant(t, "Red", "SKU-1", nil)
	old := f.image(t, v.ID, true)

	require.NoError(t, repo.CreateBatch([]models.ProductVariantImage{
		{VariantID: v.ID, Image: "a.jpg", IsPrimary: true},
		{VariantID: v.ID, Image: "b.jpg"},
	}))

	n, err := repo.CountByVariant(v.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	reloaded, err := repo.GetByID(old.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPrimary)

	primaries, err := repo.PrimaryForVariants([]uint{v.ID})
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", primaries[v.ID].Image)
}

func TestDeleteManyReturnsRemovedRows(t *testing.T) {
	f := newFixture(t)
	repo := NewVariantImageRepository(f.db)
	v := f.variant(t, "Red", "SKU-1", nil)
	a := f.image(t, v.ID, true)
	b := f.image(t, v.ID, false)

	removed, err := repo.DeleteMany([]uint{a.ID, 9999})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, a.ID, removed[0].ID)

	left, err := repo.ListByVariant(v.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID)
}

func TestProductCategoriesAndSlugLookup(t *testing.T) {
	f := newFixture(t)
	repo := NewProductRepository(f.db)
	women := models.Category{Name: "Women", IsActive: true}
	kurtas := models.Category{Name: "Kurtas", IsActive: true}
	require.NoError(t, f.db.Create(&women).Error)
	require.NoError(t, f.db.Create(&kurtas).Error)

	require.NoError(t, repo.UpdateWithCategories(&f.product, []models.Category{women, kurtas}))
	list, total, err := repo.List(ListQuery{Filters: map[string]string{"category": fmt.Sprint(kurtas.ID)}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list[0].Categories, 2)

	require.NoError(t, repo.UpdateWithCategories(&f.product, []models.Category{women}))
	_, total, err = repo.List(ListQuery{Filters: map[string]string{"category": fmt.Sprint(kurtas.ID)}})
	require.NoError(t, err)
	assert.Zero(t, total)

	size := models.Size{Name: "M", Code: "M"}
	require.NoError(t, f.db.Create(&size).Error)
	f.variant(t, "Red", "SKU-2", &size)
	f.variant(t, "Red", "SKU-1", nil)
	inactive := models.ProductVariant{ProductID: f.product.ID, VariantName: "Old", SKU: "SKU-0"}
	require.NoError(t, f.db.Create(&inactive).Error)

	p, err := repo.GetBySlug("anarkali-kurta")
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.Equal(t, "SKU-1", p.Variants[0].SKU, "size-less variants sort first")
	assert.NotNil(t, p.Fabric)

	_, err = repo.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewCountersAndRatings(t *testing.T) {
	f := newFixture(t)
	reviews := NewReviewRepository(f.db)
	products := NewProductRepository(f.db)
	user := models.User{Username: "asha", Email: "asha@example.com", PhoneNumber: "+919876543210"}
	require.NoError(t, f.db.Create(&user).Error)
	a := f.variant(t, "Red", "SKU-1", nil)
	b := f.variant(t, "Blue", "SKU-2", nil)

	r1 := &models.UserReview{UserID: user.ID, ProductVariantID: a.ID, Rating: 5}
	r2 := &models.UserReview{UserID: user.ID, ProductVariantID: b.ID, Rating: 2}
	require.NoError(t, reviews.CreateRated(r1))
	require.NoError(t, reviews.CreateRated(r2))

	require.NoError(t, reviews.IncrementLikes(r1.ID))
	require.NoError(t, reviews.IncrementLikes(r1.ID))
	require.NoError(t, reviews.IncrementDislikes(r1.ID))
	assert.ErrorIs(t, reviews.IncrementLikes(9999), ErrNotFound)

	got, err := reviews.GetByID(r1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Likes)
	assert.EqualValues(t, 1, got.Dislikes)

	p, err := products.GetByID(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.50", p.OverallRating.StringFixed(2))

	list, total, err := reviews.ListByVariant(a.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, r1.ID, list[0].ID)

	_, total, err = reviews.List(ListQuery{Filters: map[string]string{"rating": "2"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCreateRatedStoresImages(t *testing.T) {
	f := newFixture(t)
	reviews := NewReviewRepository(f.db)
	user := models.User{Username: "asha", Email: "asha@example.com", PhoneNumber: "+919876543210"}
	require.NoError(t, f.db.Create(&user).Error)
	v := f.variant(t, "Red", "SKU-1", nil)

	r := &models.UserReview{UserID: user.ID, ProductVariantID: v.ID, Rating: 4, Images: []models.ReviewImage{
		{Image: "review_images/a.jpg"},
		{Image: "review_images/b.jpg"},
	}}
	require.NoError(t, reviews.CreateRated(r))
	for _, img := range r.Images {
		assert.Equal(t, r.ID, img.ReviewID)
		assert.NotZero(t, img.ID)
	}
	got, err := reviews.GetByID(r.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 2)
}

func TestDeleteRatedRefreshesProductRating(t *testing.T) {
	f := newFixture(t)
	reviews := NewReviewRepository(f.db)
	products := NewProductRepository(f.db)
	variants := NewVariantRepository(f.db)
	users := NewUserRepository(f.db)
	harsh := models.User{Username: "harsh", Email: "harsh@example.com", PhoneNumber: "+919876543210"}
	kind := models.User{Username: "kind", Email: "kind@example.com", PhoneNumber: "+919876543211"}
	require.NoError(t, f.db.Create(&harsh).Error)
	require.NoError(t, f.db.Create(&kind).Error)
	red := f.variant(t, "Red", "SKU-1", nil)
	blue := f.variant(t, "Blue", "SKU-2", nil)

	rating := func() string {
		p, err := products.GetByID(f.product.ID)
		require.NoError(t, err)
		return p.OverallRating.StringFixed(2)
	}

	require.NoError(t, reviews.CreateRated(&models.UserReview{UserID: harsh.ID, ProductVariantID: red.ID, Rating: 1}))
	require.NoError(t, reviews.CreateRated(&models.UserReview{UserID: harsh.ID, ProductVariantID: blue.ID, Rating: 2}))
	require.NoError(t, reviews.CreateRated(&models.UserReview{UserID: kind.ID, ProductVariantID: blue.ID, Rating: 5}))
	assert.Equal(t, "2.67", rating())

	require.NoError(t, variants.DeleteRated(red.ID))
	assert.Equal(t, "3.50", rating())
	assert.ErrorIs(t, variants.DeleteRated(red.ID), ErrNotFound)

	require.NoError(t, users.DeleteRated(harsh.ID))
	assert.Equal(t, "5.00", rating())
	_, total, err := reviews.List(ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.ErrorIs(t, users.DeleteRated(harsh.ID), ErrNotFound)

	require.NoError(t, users.DeleteRated(kind.ID))
	assert.Equal(t, "0.00", rating())
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.variant(t, "Red", "SKU-1", nil)
	empty := models.ProductVariant{ProductID: f.product.ID, VariantName: "Blue", SKU: "SKU-2", IsActive: true}
	require.NoError(t, f.db.Create(&empty).Error)

	stats, err := NewAdminRepository(f.db).GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalVariants)
	assert.EqualValues(t, 2, stats.ActiveVariants)
	assert.EqualValues(t, 1, stats.OutOfStock)
}
