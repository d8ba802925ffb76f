package handler

import (
	"net/http"
	"strconv"

	"boutique/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminRepo *repository.AdminRepository
}

func NewAdminHandler(adminRepo *repository.AdminRepository) *AdminHandler {
	return &AdminHandler{adminRepo: adminRepo}
}

// Dashboard handles GET /admin/dashboard: overview stats.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		fail(c, "admin", "failed to load stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /admin/analytics?days=30.
func (h *AdminHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}
	signups, err := h.adminRepo.UserSignupsByDay(days)
	if err != nil {
		fail(c, "admin", "failed to load analytics", err)
		return
	}
	reviews, err := h.adminRepo.ReviewsByDay(days)
	if err != nil {
		fail(c, "admin", "failed to load analytics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signups": signups,
		"reviews": reviews,
		"days":    days,
	})
}
