package handler

import (
	"net/http"

	"boutique/internal/middleware"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type RegisterRequest struct {
	Username      string `json:"username" form:"username" binding:"required,max=150"`
	Email         string `json:"email" form:"email" binding:"required,email,max=254"`
	PhoneNumber   string `json:"phone_number" form:"phone_number" binding:"required,phone"`
	Password      string `json:"password" form:"password" binding:"required,min=8"`
	FirstName     string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName      string `json:"last_name" form:"last_name" binding:"max=150"`
	SendPromoMail *bool  `json:"send_promo_mail" form:"send_promo_mail"`
}

// LoginRequest accepts a username or an email address in Login.
type LoginRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ProfileRequest struct {
	FirstName     *string `json:"first_name" binding:"omitempty,max=150"`
	LastName      *string `json:"last_name" binding:"omitempty,max=150"`
	PhoneNumber   *string `json:"phone_number" binding:"omitempty,phone"`
	SendPromoMail *bool   `json:"send_promo_mail"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UserRequest is the admin user form; omitted fields keep their value.
type UserRequest struct {
	Username         *string `json:"username" binding:"omitempty,min=1,max=150"`
	Email            *string `json:"email" binding:"omitempty,email,max=254"`
	PhoneNumber      *string `json:"phone_number" binding:"omitempty,phone"`
	Password         *string `json:"password" binding:"omitempty,min=8"`
	FirstName        *string `json:"first_name" binding:"omitempty,max=150"`
	LastName         *string `json:"last_name" binding:"omitempty,max=150"`
	ReferralCode     *string `json:"referral_code" binding:"omitempty,max=50"`
	SendPromoMail    *bool   `json:"send_promo_mail"`
	FirstOrderPlaced *bool   `json:"first_order_placed"`
	IsActive         *bool   `json:"is_active"`
	IsStaff          *bool   `json:"is_staff"`
	IsSuperuser      *bool   `json:"is_superuser"`
}

func (r UserRequest) input() service.UserInput {
	return service.UserInput{
		Username:         r.Username,
		Email:            r.Email,
		PhoneNumber:      r.PhoneNumber,
		Password:         r.Password,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		ReferralCode:     r.ReferralCode,
		SendPromoMail:    r.SendPromoMail,
		FirstOrderPlaced: r.FirstOrderPlaced,
		IsActive:         r.IsActive,
		IsStaff:          r.IsStaff,
		IsSuperuser:      r.IsSuperuser,
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}
	u, access, refresh, err := h.svc.Register(service.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		SendPromoMail: req.SendPromoMail,
	})
	if err != nil {
		fail(c, "accounts", "registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	u, access, refresh, err := h.svc.Login(req.Login, req.Password)
	if err != nil {
		fail(c, "accounts", "login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AccountHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, refresh, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

// Me handles GET /me.
func (h *AccountHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(middleware.GetUserID(c))
	if err != nil {
		fail(c, "accounts", "failed to load profile", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateMe handles PATCH /me.
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.UpdateProfile(middleware.GetUserID(c), req.FirstName, req.LastName, req.PhoneNumber, req.SendPromoMail)
	if err != nil {
		fail(c, "accounts", "failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ChangePassword handles POST /me/password.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChangePassword(middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, "accounts", "failed to change password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// ListUsers handles GET /admin/users.
func (h *AccountHandler) ListUsers(c *gin.Context) {
	q := listQuery(c)
	users, total, err := h.svc.ListUsers(q)
	if err != nil {
		fail(c, "accounts", "failed to list users", err)
		return
	}
	paged(c, users, total, q)
}

// GetUser handles GET /admin/users/:id.
func (h *AccountHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetUser(id)
	if err != nil {
		fail(c, "accounts", "failed to load user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateUser handles POST /admin/users.
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.CreateUser(req.input())
	if err != nil {
		fail(c, "accounts", "failed to create user", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUser handles PATCH /admin/users/:id.
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.UpdateUser(id, req.input())
	if err != nil {
		fail(c, "accounts", "failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(id); err != nil {
		fail(c, "accounts", "failed to delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}
