package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"boutique/internal/auth"
	"boutique/internal/domain"
	"boutique/internal/repository"
	"boutique/internal/service"
	"boutique/internal/swatch"

	"github.com/gin-gonic/gin"
)

// badRequest lists service errors caused by the submitted values.
var badRequest = []error{
	service.ErrMissingFields,
	service.ErrInvalidPhone,
	service.ErrWeakPassword,
	service.ErrImageLimit,
	service.ErrInvalidRating,
	service.ErrInvalidHex,
	service.ErrImageRequired,
	service.ErrCategoryCycle,
	service.ErrInvalidReference,
	service.ErrInvalidPrice,
	service.ErrInvalidStock,
	service.ErrNoImages,
	service.ErrBasePriceMissing,
	service.ErrOfferOutOfRange,
	swatch.ErrUnsupportedFormat,
}

var conflict = []error{
	service.ErrProtected,
	service.ErrDuplicate,
	service.ErrEmailExists,
	service.ErrUsernameExists,
	service.ErrPhoneExists,
	service.ErrVariantExists,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// fail writes the JSON error for err. Unexpected errors are logged under tag
// and reported as 500 with msg.
func fail(c *gin.Context, tag, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case isAny(err, conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isAny(err, badRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCreds), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s] %s: %v", tag, msg, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > domain.MaxPageSize {
		limit = domain.DefaultPageSize
	}
	return page, limit
}

// listQuery reads search, page and limit; every other query key is passed on
// as a filter and ignored by lists that do not know it.
func listQuery(c *gin.Context) repository.ListQuery {
	page, limit := parsePagination(c)
	q := repository.ListQuery{
		Search:  c.Query("search"),
		Page:    page,
		Limit:   limit,
		Filters: map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "search", "page", "limit":
			continue
		}
		if len(values) > 0 && values[0] != "" {
			q.Filters[key] = values[0]
		}
	}
	return q
}

func paged(c *gin.Context, data any, total int64, q repository.ListQuery) {
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": q.Page, "limit": q.Limit})
}

// idParam parses the named path parameter, writing a 400 when it is not a
// positive integer.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// openUploads opens every multipart file sent under field. The returned
// closer releases them all.
func openUploads(c *gin.Context, field string) ([]service.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, nil
	}
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	var uploads []service.Upload
	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

// openUpload returns the single file sent under field, or nil.
func openUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { f.Close() }, nil
}

// bind decodes the request body into req: JSON bodies with ShouldBindJSON,
// multipart and urlencoded forms with ShouldBind.
func bind(c *gin.Context, req any) bool {
	var err error
	if c.ContentType() == gin.MIMEJSON {
		err = c.ShouldBindJSON(req)
	} else {
		err = c.ShouldBind(req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
