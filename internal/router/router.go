package router

import (
	"log"
	"strings"
	"sync"

	"boutique/config"
	"boutique/internal/domain"
	"boutique/internal/handler"
	"boutique/internal/middleware"
	"boutique/internal/models"
	"boutique/internal/repository"
	"boutique/internal/service"
	"boutique/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, store storage.Store) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.Env == "development" {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit)))
	r.SetHTMLTemplate(handler.Templates())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	colorRepo := repository.NewColorRepository(db)
	sizeRepo := repository.NewSizeRepository(db)
	attributeRepo := repository.NewSizeAttributeRepository(db)
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	imageRepo := repository.NewVariantImageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	accountSvc := service.NewAccountService(cfg, userRepo)
	catalogSvc := service.NewCatalogService(categoryRepo, colorRepo, sizeRepo, attributeRepo, store)
	storeSvc := service.NewStoreService(service.StoreRepos{
		Products:   productRepo,
		Variants:   variantRepo,
		Images:     imageRepo,
		Measures:   repository.NewProductSizeAttributeRepository(db),
		Categories: categoryRepo,
		Colors:     colorRepo,
		Sizes:      sizeRepo,
		Attributes: attributeRepo,
	}, store)
	reviewSvc := service.NewReviewService(reviewRepo, variantRepo, store)
	storefrontSvc := service.NewStorefrontService(productRepo, variantRepo, imageRepo)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	storeHandler := handler.NewStoreHandler(storeSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	storefrontHandler := handler.NewStorefrontHandler(storefrontSvc, cfg.Server.SiteName)
	adminHandler := handler.NewAdminHandler(adminRepo)

	terms := map[string]termRoutes{
		"/fabrics":        termHandler[models.Fabric](db, "fabric_id", "fabrics"),
		"/patterns":       termHandler[models.Pattern](db, "pattern_id", "patterns"),
		"/shapes":         termHandler[models.Shape](db, "shape_id", "shapes"),
		"/necks":          termHandler[models.Neck](db, "neck_id", "necks"),
		"/lengths":        termHandler[models.Length](db, "length_id", "lengths"),
		"/sleeve-lengths": termHandler[models.SleeveLength](db, "sleeve_length_id", "sleeve lengths"),
	}

	r.GET("/", storefrontHandler.Home)
	r.GET("/home/", storefrontHandler.Home)
	if (cfg.Storage.Backend == "local" || cfg.Storage.Backend == "") && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		r.Static(cfg.Storage.BaseURL, cfg.Storage.LocalRoot)
	}

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", accountHandler.Register)
			authGroup.POST("/login", accountHandler.Login)
			authGroup.POST("/refresh", accountHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", accountHandler.Me)
			me.PATCH("", accountHandler.UpdateMe)
			me.POST("/password", accountHandler.ChangePassword)
		}

		api.GET("/storefront", storefrontHandler.Listing)
		api.GET("/products/:slug", storeHandler.ProductBySlug)
		api.GET("/categories", catalogHandler.Categories)
		api.GET("/colors", catalogHandler.Colors)
		api.GET("/sizes", catalogHandler.Sizes)
		api.GET("/size-attributes", catalogHandler.SizeAttributes)
		for path, h := range terms {
			api.GET(path, h.All)
		}

		api.GET("/variants/:id/reviews", reviewHandler.ListForVariant)
		api.POST("/variants/:id/reviews", authMw, reviewHandler.Create)
		api.POST("/reviews/:id/like", authMw, reviewHandler.Like)
		api.POST("/reviews/:id/dislike", authMw, reviewHandler.Dislike)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.StaffRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/analytics", adminHandler.Analytics)

			crud(admin, "/users", accountHandler.ListUsers, accountHandler.GetUser, accountHandler.CreateUser, accountHandler.UpdateUser, accountHandler.DeleteUser)
			crud(admin, "/categories", catalogHandler.ListCategories, catalogHandler.GetCategory, catalogHandler.CreateCategory, catalogHandler.UpdateCategory, catalogHandler.DeleteCategory)
			crud(admin, "/colors", catalogHandler.ListColors, catalogHandler.GetColor, catalogHandler.CreateColor, catalogHandler.UpdateColor, catalogHandler.DeleteColor)
			crud(admin, "/sizes", catalogHandler.ListSizes, catalogHandler.GetSize, catalogHandler.CreateSize, catalogHandler.UpdateSize, catalogHandler.DeleteSize)
			crud(admin, "/size-attributes", catalogHandler.ListSizeAttributes, catalogHandler.GetSizeAttribute, catalogHandler.CreateSizeAttribute, catalogHandler.UpdateSizeAttribute, catalogHandler.DeleteSizeAttribute)
			for path, h := range terms {
				crud(admin, path, h.List, h.Get, h.Create, h.Update, h.Delete)
			}

			crud(admin, "/products", storeHandler.ListProducts, storeHandler.GetProduct, storeHandler.CreateProduct, storeHandler.UpdateProduct, storeHandler.DeleteProduct)
			crud(admin, "/variants", storeHandler.ListVariants, storeHandler.GetVariant, storeHandler.CreateVariant, storeHandler.UpdateVariant, storeHandler.DeleteVariant)
			admin.POST("/variants/:id/images", storeHandler.UploadImages)
			admin.GET("/images", storeHandler.ListImages)
			admin.POST("/images/mark-primary", storeHandler.MarkPrimary)
			admin.POST("/images/remove", storeHandler.RemoveImages)
			crud(admin, "/measurements", storeHandler.ListMeasurements, storeHandler.GetMeasurement, storeHandler.CreateMeasurement, storeHandler.UpdateMeasurement, storeHandler.DeleteMeasurement)

			admin.GET("/reviews", reviewHandler.List)
			admin.GET("/reviews/:id", reviewHandler.Get)
			admin.PATCH("/reviews/:id", reviewHandler.Update)
			admin.DELETE("/reviews/:id", reviewHandler.Delete)
			admin.DELETE("/review-images/:id", reviewHandler.DeleteImage)
		}
	}

	return r
}

// termRoutes is the handler surface shared by every taxonomy table.
type termRoutes interface {
	All(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func termHandler[T any, P interface {
	*T
	GetID() uint
	Assign(name string, description *string)
}](db *gorm.DB, productColumn, kind string) termRoutes {
	svc := service.NewTermService[T, P](repository.NewTermRepository[T](db, productColumn))
	return handler.NewTermHandler[T](svc, kind)
}

func crud(g *gin.RouterGroup, path string, list, get, create, update, del gin.HandlerFunc) {
	g.GET(path, list)
	g.GET(path+"/:id", get)
	g.POST(path, create)
	g.PATCH(path+"/:id", update)
	g.DELETE(path+"/:id", del)
}

var validatorsOnce sync.Once

// registerValidators adds the "phone" binding rule.
func registerValidators() {
	validatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
				return domain.ValidPhone(fl.Field().String())
			})
			if err != nil {
				log.Fatalf("[router] register phone validator: %v", err)
			}
		}
	})
}
