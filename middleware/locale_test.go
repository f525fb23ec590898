package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"law_dashboard_go/config"
	"law_dashboard_go/services/i18n"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLocale(t *testing.T, cfg *config.Config, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("config", cfg)

	err := Locale(cfg)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return c, rec
}

func TestLocale(t *testing.T) {
	require.NoError(t, i18n.Load())
	cfg := &config.Config{Environment: "development", DefaultLocale: "en"}

	t.Run("PriorityQueryParam", func(t *testing.T) {
		c, rec := runLocale(t, cfg, httptest.NewRequest(http.MethodGet, "/?lang=nl", nil))
		assert.Equal(t, "nl", c.Get(ContextKeyLocale))

		found := false
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == LocaleCookieName {
				assert.Equal(t, "nl", cookie.Value)
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("UnsupportedQueryParam", func(t *testing.T) {
		c, _ := runLocale(t, cfg, httptest.NewRequest(http.MethodGet, "/?lang=es", nil))
		assert.Equal(t, "en", c.Get(ContextKeyLocale))
	})

	t.Run("PriorityCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: "nl"})
		req.Header.Set("Accept-Language", "en-US")
		c, _ := runLocale(t, cfg, req)
		assert.Equal(t, "nl", c.Get(ContextKeyLocale))
	})

	t.Run("PriorityHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "fr-FR,nl-BE;q=0.8,en;q=0.5")
		c, _ := runLocale(t, cfg, req)
		assert.Equal(t, "nl", c.Get(ContextKeyLocale))
	})

	t.Run("DefaultLanguage", func(t *testing.T) {
		c, _ := runLocale(t, cfg, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "en", c.Get(ContextKeyLocale))
	})

	t.Run("RequestContext", func(t *testing.T) {
		c, _ := runLocale(t, cfg, httptest.NewRequest(http.MethodGet, "/?lang=nl", nil))
		assert.Equal(t, "nl", i18n.GetLocale(c.Request().Context()))
	})
}

func TestSetLanguageCookie(t *testing.T) {
	e := echo.New()

	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.Set("config", &config.Config{Environment: env})

			SetLanguageCookie(c, "nl")

			var langCookie *http.Cookie
			for _, cookie := range rec.Result().Cookies() {
				if cookie.Name == LocaleCookieName {
					langCookie = cookie
				}
			}
			require.NotNil(t, langCookie)
			assert.Equal(t, "nl", langCookie.Value)
			assert.Equal(t, env == "production", langCookie.Secure)
		})
	}
}

func TestGetLocale(t *testing.T) {
	e := echo.New()

	c := e.NewContext(nil, nil)
	assert.Equal(t, "en", GetLocale(c))

	c.Set(ContextKeyLocale, "nl")
	assert.Equal(t, "nl", GetLocale(c))
}
