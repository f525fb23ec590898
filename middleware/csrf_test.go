package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"law_dashboard_go/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetCSRFToken(t *testing.T) {
	e := echo.New()

	t.Run("TokenExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set(CSRFContextKey, "test-csrf-token")
		assert.Equal(t, "test-csrf-token", GetCSRFToken(c))
	})

	t.Run("TokenMissing", func(t *testing.T) {
		assert.Equal(t, "", GetCSRFToken(e.NewContext(nil, nil)))
	})

	t.Run("TokenInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set(CSRFContextKey, 123)
		assert.Equal(t, "", GetCSRFToken(c))
	})
}

func TestCSRF(t *testing.T) {
	e := echo.New()
	e.Use(CSRF(&config.Config{}))
	e.GET("/login", func(c echo.Context) error { return c.String(http.StatusOK, GetCSRFToken(c)) })
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// GET issues a token and cookie
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	assert.NotEmpty(t, token)

	// POST without token is rejected
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=x")))
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusForbidden}, rec.Code)

	// POST with matching header and cookie passes
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set(CSRFHeaderName, token)
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
