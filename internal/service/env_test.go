package service

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"boutique/config"
	"boutique/internal/database"
	"boutique/internal/database/dbtest"
	"boutique/internal/models"
	"boutique/internal/repository"
	"boutique/pkg/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db         *gorm.DB
	store      *storage.Memory
	accounts   *AccountService
	catalog    *CatalogService
	patterns   *TermService[models.Pattern, *models.Pattern]
	shop       *StoreService
	reviews    *ReviewService
	storefront *StorefrontService

	terms termIDs
}

type termIDs struct {
	pattern, fabric, shape, length, neck, sleeve uint
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "boutique-test",
	}}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t, database.Models()...)
	mem := storage.NewMemory()

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	colors := repository.NewColorRepository(db)
	sizes := repository.NewSizeRepository(db)
	attributes := repository.NewSizeAttributeRepository(db)
	products := repository.NewProductRepository(db)
	variants := repository.NewVariantRepository(db)
	images := repository.NewVariantImageRepository(db)
	reviews := repository.NewReviewRepository(db)

	e := &env{
		db:       db,
		store:    mem,
		accounts: NewAccountService(testConfig(), users),
		catalog:  NewCatalogService(categories, colors, sizes, attributes, mem),
		patterns: NewTermService[models.Pattern](repository.NewTermRepository[models.Pattern](db, "pattern_id")),
		shop: NewStoreService(StoreRepos{
			Products:   products,
			Variants:   variants,
			Images:     images,
			Measures:   repository.NewProductSizeAttributeRepository(db),
			Categories: categories,
			Colors:     colors,
			Sizes:      sizes,
			Attributes: attributes,
		}, mem),
		reviews:    NewReviewService(reviews, variants, mem),
		storefront: NewStorefrontService(products, variants, images),
	}

	pattern := models.Pattern{UniqueTerm: models.UniqueTerm{Name: "Floral"}}
	fabric := models.Fabric{UniqueTerm: models.UniqueTerm{Name: "Cotton"}}
	shape := models.Shape{Term: models.Term{Name: "A-Line"}}
	length := models.Length{Term: models.Term{Name: "Ankle"}}
	neck := models.Neck{Term: models.Term{Name: "Round"}}
	sleeve := models.SleeveLength{Term: models.Term{Name: "Full"}}
	for _, v := range []any{&pattern, &fabric, &shape, &length, &neck, &sleeve} {
		require.NoError(t, db.Create(v).Error)
	}
	e.terms = termIDs{pattern.ID, fabric.ID, shape.ID, length.ID, neck.ID, sleeve.ID}
	return e
}

func ptr[T any](v T) *T { return &v }

func (e *env) productInput(name string, price string) ProductInput {
	in := ProductInput{
		Name:           ptr(name),
		Description:    ptr(name + " description"),
		ReturnPolicy:   ptr("7 days"),
		ExchangePolicy: ptr("15 days"),
		PatternID:      ptr(e.terms.pattern),
		FabricID:       ptr(e.terms.fabric),
		ShapeID:        ptr(e.terms.shape),
		LengthID:       ptr(e.terms.length),
		NeckID:         ptr(e.terms.neck),
		SleeveLengthID: ptr(e.terms.sleeve),
	}
	if price != "" {
		in.BasePrice = ptr(decimal.RequireFromString(price))
	}
	return in
}

func (e *env) product(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p, err := e.shop.CreateProduct(e.productInput(name, price))
	require.NoError(t, err)
	return p
}

func (e *env) variant(t *testing.T, productID uint, name, sku string, sizeID *uint) *models.ProductVariant {
	t.Helper()
	v, err := e.shop.CreateVariant(VariantInput{
		ProductID:   &productID,
		VariantName: ptr(name),
		SKU:         ptr(sku),
		SizeID:      sizeID,
		StockCount:  ptr(3),
	})
	require.NoError(t, err)
	return v
}

func (e *env) size(t *testing.T, name string) *models.Size {
	t.Helper()
	s, err := e.catalog.CreateSize(SizeInput{Name: ptr(name), Code: ptr(name)})
	require.NoError(t, err)
	return s
}

func (e *env) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, _, _, err := e.accounts.Register(RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		PhoneNumber: fmt.Sprintf("+9198765%05d", crc32.ChecksumIEEE([]byte(username))%100000),
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func pngUpload(t *testing.T, name string, w, h int) *Upload {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &Upload{Filename: name, ContentType: "image/png", Body: &buf}
}

func fileUpload(name string) Upload {
	return Upload{Filename: name, ContentType: "image/jpeg", Body: bytes.NewReader([]byte("jpeg-bytes-" + name))}
}
