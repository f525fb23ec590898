package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "success") }

	t.Run("WithinLimit", func(t *testing.T) {
		handler := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute}).Middleware()(ok)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		handler := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute}).Middleware()(ok)

		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		assert.NoError(t, handler(c))

		c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		err := handler(c)

		he, isHTTPErr := err.(*echo.HTTPError)
		assert.True(t, isHTTPErr)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
	})

	t.Run("HXRequestExceededShowsToast", func(t *testing.T) {
		handler := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute}).Middleware()(ok)

		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		assert.NoError(t, handler(c))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		c = e.NewContext(req, rec)

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), "Too many requests")
	})

	t.Run("FallbackAnswersPlainRequests", func(t *testing.T) {
		var got string
		fallback := func(c echo.Context, message string) error {
			got = message
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
		handler := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute, Message: "Slow down"}).WithFallback(fallback)(ok)

		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
		assert.NoError(t, handler(c))

		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		assert.Equal(t, "Slow down", got)

		// htmx callers still get the toast header
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("HX-Request", "true")
		rec = httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), "Slow down")
	})

	t.Run("KeyedBySession", func(t *testing.T) {
		handler := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute, KeyFunc: SessionOrIP}).Middleware()(ok)

		for _, token := range []string{"a", "b"} {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			rec := httptest.NewRecorder()
			assert.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("x"))
	assert.False(t, rl.Allow("x"))
	assert.Equal(t, 0, rl.Cleanup())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
	assert.True(t, rl.Allow("x"))
}
