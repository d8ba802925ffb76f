package handler

import (
	"embed"
	"html/template"
	"net/http"

	"boutique/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type StorefrontHandler struct {
	svc   *service.StorefrontService
	title string
}

func NewStorefrontHandler(svc *service.StorefrontService, title string) *StorefrontHandler {
	return &StorefrontHandler{svc: svc, title: title}
}

// Home renders the storefront page served at / and /home/.
func (h *StorefrontHandler) Home(c *gin.Context) {
	items, err := h.svc.Listing()
	if err != nil {
		fail(c, "storefront", "failed to load storefront", err)
		return
	}
	c.HTML(http.StatusOK, "storefront.html", gin.H{"Title": h.title, "Items": items})
}

// Listing handles GET /storefront: the same cards as JSON.
func (h *StorefrontHandler) Listing(c *gin.Context) {
	items, err := h.svc.Listing()
	if err != nil {
		fail(c, "storefront", "failed to load storefront", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
