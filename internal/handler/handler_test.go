package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		target  string
		page    int
		limit   int
		search  string
		filters map[string]string
	}{
		{"/", 1, 20, "", map[string]string{}},
		{"/?page=3&limit=50&search=silk", 3, 50, "silk", map[string]string{}},
		{"/?page=-1&limit=500", 1, 20, "", map[string]string{}},
		{"/?is_active=true&parent=4&empty=", 1, 20, "", map[string]string{"is_active": "true", "parent": "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			c, _ := testContext(tt.target)
			q := listQuery(c)
			assert.Equal(t, tt.page, q.Page)
			assert.Equal(t, tt.limit, q.Limit)
			assert.Equal(t, tt.search, q.Search)
			assert.Equal(t, tt.filters, q.Filters)
		})
	}
}

func TestFailStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrProtected, http.StatusConflict},
		{service.ErrVariantExists, http.StatusConflict},
		{fmt.Errorf("%w: size", service.ErrInvalidReference), http.StatusBadRequest},
		{service.ErrImageLimit, http.StatusBadRequest},
		{service.ErrInvalidCreds, http.StatusUnauthorized},
		{service.ErrInactive, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c, w := testContext("/")
			fail(c, "test", "request failed", tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	c, w := testContext("/")
	fail(c, "test", "request failed", errors.New("dial tcp: secret-host"))
	assert.JSONEq(t, `{"error":"request failed"}`, w.Body.String())
}

func TestIDParam(t *testing.T) {
	for _, tt := range []struct {
		raw string
		ok  bool
	}{{"12", true}, {"0", false}, {"-3", false}, {"x", false}} {
		c, w := testContext("/")
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}
		id, ok := idParam(c, "id")
		assert.Equal(t, tt.ok, ok, tt.raw)
		if ok {
			assert.EqualValues(t, 12, id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()
	assert.NotNil(t, tmpl.Lookup("storefront.html"))
}
