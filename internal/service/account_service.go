package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"boutique/config"
	"boutique/internal/auth"
	"boutique/internal/domain"
	"boutique/internal/models"
	"boutique/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAccountService(cfg *config.Config, userRepo *repository.UserRepository) *AccountService {
	return &AccountService{cfg: cfg, userRepo: userRepo}
}

type RegisterInput struct {
	Username      string
	Email         string
	PhoneNumber   string
	Password      string
	FirstName     string
	LastName      string
	SendPromoMail *bool
}

// UserInput is the admin form for a user. Nil fields are left unchanged on
// update and take their defaults on create.
type UserInput struct {
	Username         *string
	Email            *string
	PhoneNumber      *string
	Password         *string
	FirstName        *string
	LastName         *string
	ReferralCode     *string
	SendPromoMail    *bool
	FirstOrderPlaced *bool
	IsActive         *bool
	IsStaff          *bool
	IsSuperuser      *bool
}

func (s *AccountService) Register(in RegisterInput) (*models.User, string, string, error) {
	u := &models.User{
		Username:      strings.TrimSpace(in.Username),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber:   in.PhoneNumber,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		SendPromoMail: true,
		IsActive:      true,
	}
	if in.SendPromoMail != nil {
		u.SendPromoMail = *in.SendPromoMail
	}
	if err := s.checkUnique(u); err != nil {
		return nil, "", "", err
	}
	if err := s.setPassword(u, in.Password); err != nil {
		return nil, "", "", err
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", duplicate(err)
	}
	log.Printf("[accounts] registered user %d (%s)", u.ID, u.Username)
	access, refresh, err := s.tokens(u)
	if err != nil {
		return u, "", "", err
	}
	return u, access, refresh, nil
}

// Login accepts a username or an email address.
func (s *AccountService) Login(login, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByLogin(strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if !u.IsActive {
		return nil, "", "", ErrInactive
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(u.ID, now); err != nil {
		log.Printf("[accounts] last_login update failed for user %d: %v", u.ID, err)
	} else {
		u.LastLogin = &now
	}
	access, refresh, err := s.tokens(u)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

func (s *AccountService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || !u.IsActive {
		return "", "", auth.ErrInvalidToken
	}
	return s.tokens(u)
}

func (s *AccountService) Me(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the fields a user may edit about themselves.
func (s *AccountService) UpdateProfile(userID uint, firstName, lastName, phone *string, sendPromoMail *bool) (*models.User, error) {
	return s.UpdateUser(userID, UserInput{
		FirstName:     firstName,
		LastName:      lastName,
		PhoneNumber:   phone,
		SendPromoMail: sendPromoMail,
	})
}

// ChangePassword updates the user's password. Requires current password verification.
func (s *AccountService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	if err := s.setPassword(u, newPassword); err != nil {
		return err
	}
	return s.userRepo.Update(u)
}

func (s *AccountService) ListUsers(q repository.ListQuery) ([]models.User, int64, error) {
	return s.userRepo.List(q)
}

func (s *AccountService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AccountService) CreateUser(in UserInput) (*models.User, error) {
	u := &models.User{SendPromoMail: true, IsActive: true}
	apply(u, in)
	if u.Username == "" || u.Email == "" || u.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: username, email, phone_number", ErrMissingFields)
	}
	if err := s.checkUnique(u); err != nil {
		return nil, err
	}
	if in.Password != nil {
		if err := s.setPassword(u, *in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, duplicate(err)
	}
	log.Printf("[accounts] admin created user %d (%s)", u.ID, u.Username)
	return u, nil
}

func (s *AccountService) UpdateUser(id uint, in UserInput) (*models.User, error) {
	u, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	apply(u, in)
	if err := s.checkUnique(u); err != nil {
		return nil, err
	}
	if in.Password != nil {
		if err := s.setPassword(u, *in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(u); err != nil {
		return nil, duplicate(err)
	}
	return u, nil
}

func (s *AccountService) DeleteUser(id uint) error {
	return s.userRepo.DeleteRated(id)
}

func apply(u *models.User, in UserInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Username, in.Username)
	set(&u.Email, in.Email)
	u.Email = strings.ToLower(u.Email)
	set(&u.PhoneNumber, in.PhoneNumber)
	set(&u.FirstName, in.FirstName)
	set(&u.LastName, in.LastName)
	set(&u.ReferralCode, in.ReferralCode)
	setBool(&u.SendPromoMail, in.SendPromoMail)
	setBool(&u.FirstOrderPlaced, in.FirstOrderPlaced)
	setBool(&u.IsActive, in.IsActive)
	setBool(&u.IsStaff, in.IsStaff)
	setBool(&u.IsSuperuser, in.IsSuperuser)
}

func (s *AccountService) checkUnique(u *models.User) error {
	if !domain.ValidPhone(u.PhoneNumber) {
		return ErrInvalidPhone
	}
	checks := []struct {
		column string
		value  string
		err    error
	}{
		{"username", u.Username, ErrUsernameExists},
		{"email", u.Email, ErrEmailExists},
		{"phone_number", u.PhoneNumber, ErrPhoneExists},
	}
	for _, c := range checks {
		taken, err := s.userRepo.Taken(c.column, c.value, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return c.err
		}
	}
	if u.ReferralCode != "" {
		taken, err := s.userRepo.Taken("referral_code", u.ReferralCode, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
	}
	return nil
}

func (s *AccountService) setPassword(u *models.User, password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (s *AccountService) tokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Username, u.IsStaff)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
