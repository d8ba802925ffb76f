package models

import (
	"crypto/rand"
	"io"
	"time"

	"boutique/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	FirstName        string     `gorm:"size:150" json:"first_name"`
	LastName         string     `gorm:"size:150" json:"last_name"`
	PhoneNumber      string     `gorm:"uniqueIndex;size:15;not null" json:"phone_number"`
	ReferralCode     string     `gorm:"uniqueIndex;size:50;not null" json:"referral_code"`
	SendPromoMail    bool       `gorm:"not null" json:"send_promo_mail"`
	FirstOrderPlaced bool       `gorm:"not null" json:"first_order_placed"`
	IsActive         bool       `gorm:"not null;index" json:"is_active"`
	IsStaff          bool       `gorm:"not null;index" json:"is_staff"`
	IsSuperuser      bool       `gorm:"not null" json:"is_superuser"`
	LastLogin        *time.Time `json:"last_login"`
	CreatedAt        time.Time  `json:"date_joined"`
	UpdatedAt        time.Time  `json:"modified"`
}

// BeforeSave assigns a referral code to users saved without one.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.ReferralCode != "" {
		return nil
	}
	code, err := uniqueReferralCode(tx.Session(&gorm.Session{NewDB: true}), rand.Reader)
	if err != nil {
		return err
	}
	u.ReferralCode = code
	return nil
}

// NewReferralCode draws domain.ReferralCodeLength characters uniformly from
// domain.ReferralCodeAlphabet using src as the entropy source.
func NewReferralCode(src io.Reader) (string, error) {
	alphabet := domain.ReferralCodeAlphabet
	// Largest multiple of len(alphabet) that fits in a byte; bytes above it are
	// rejected so every character is equally likely.
	limit := byte(256 - 256%len(alphabet))
	code := make([]byte, 0, domain.ReferralCodeLength)
	buf := make([]byte, domain.ReferralCodeLength)
	for len(code) < domain.ReferralCodeLength {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == domain.ReferralCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// uniqueReferralCode keeps drawing codes until one is not present in users.
func uniqueReferralCode(db *gorm.DB, src io.Reader) (string, error) {
	for {
		code, err := NewReferralCode(src)
		if err != nil {
			return "", err
		}
		var n int64
		if err := db.Model(&User{}).Where("referral_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
