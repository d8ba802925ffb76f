package models

import (
	"time"

	"boutique/internal/slugs"

	"gorm.io/gorm"
)

// Category is a node of the storefront taxonomy tree. Deleting a category removes
// its subcategories.
type Category struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description     *string    `gorm:"type:text" json:"description"`
	ParentID        *uint      `gorm:"index" json:"parent_id"`
	Parent          *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"parent,omitempty"`
	Subcategories   []Category `gorm:"-" json:"subcategories,omitempty"`
	Slug            string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Image           string     `gorm:"size:255" json:"image"`
	ImageURL        string     `gorm:"size:512" json:"image_url"`
	IsActive        bool       `gorm:"not null;index" json:"is_active"`
	MetaTitle       *string    `gorm:"size:255" json:"meta_title"`
	MetaDescription *string    `gorm:"size:255" json:"meta_description"`
	CreatedAt       time.Time  `json:"created"`
	UpdatedAt       time.Time  `json:"modified"`
}

// BeforeSave fills the slug from the name when the caller left it blank.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug != "" {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})
	base := slugs.Make(c.Name)
	if base == "" {
		base = "category"
	}
	s, err := slugs.Unique(base, func(candidate string) (bool, error) {
		var n int64
		err := db.Model(&Category{}).Where("slug = ? AND id <> ?", candidate, c.ID).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		return err
	}
	c.Slug = s
	return nil
}

// Term is the name/description pair shared by the simple lookup tables.
type Term struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"modified"`
}

func (t *Term) GetID() uint                             { return t.ID }
func (t *Term) SetID(id uint)                           { t.ID = id }
func (t *Term) Assign(name string, description *string) { t.Name, t.Description = name, description }

// UniqueTerm is a Term whose name may not repeat within its table.
type UniqueTerm struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"modified"`
}

func (t *UniqueTerm) GetID() uint   { return t.ID }
func (t *UniqueTerm) SetID(id uint) { t.ID = id }
func (t *UniqueTerm) Assign(name string, description *string) {
	t.Name, t.Description = name, description
}

type Fabric struct{ UniqueTerm }

type Pattern struct{ UniqueTerm }

type Shape struct{ Term }

type Neck struct{ Term }

type Length struct{ Term }

type SleeveLength struct{ Term }

// Color carries a 50x50 swatch image; see internal/swatch.
type Color struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Image     string    `gorm:"size:255;not null" json:"image"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	HexValue  *string   `gorm:"size:7" json:"hex_value"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

type Size struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:20;not null" json:"name"`
	Code        string    `gorm:"uniqueIndex;size:4;not null" json:"code"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"modified"`
}

// SizeAttribute names a body measurement such as Waist or Hip.
type SizeAttribute struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"modified"`
}
