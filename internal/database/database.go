package database

import (
	"errors"
	"fmt"
	"log"

	"boutique/config"
	"boutique/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	level := logger.Error
	if debug {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Models lists every table in migration order: lookups before the rows that
// reference them.
func Models() []any {
	return []any{
		&models.User{},
		&models.Category{},
		&models.Fabric{},
		&models.Pattern{},
		&models.Shape{},
		&models.Neck{},
		&models.Length{},
		&models.SleeveLength{},
		&models.Color{},
		&models.Size{},
		&models.SizeAttribute{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductVariantImage{},
		&models.ProductSizeAttribute{},
		&models.UserReview{},
		&models.ReviewImage{},
	}
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedAdmin creates the configured superuser if no user with that username exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("username = ?", cfg.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	email := cfg.Email
	if email == "" {
		email = cfg.Username + "@localhost"
	}
	phone := cfg.Phone
	if phone == "" {
		phone = "+10000000000"
	}
	admin := &models.User{
		Username:     cfg.Username,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("[db] seeded superuser %q", admin.Username)
	return nil
}
