package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"law_dashboard_go/db"
	"law_dashboard_go/models"
	"law_dashboard_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := testDB.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	session, err := services.CreateSession(testDB, services.PlaceholderEmail, "Suzan", "127.0.0.1", "test-agent")
	require.NoError(t, err)

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, GetCurrentSession(c))
		assert.Equal(t, "Suzan", GetCurrentSession(c).DisplayName)
	})

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("NoCookieHTMX", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/tabs/nps", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("UnknownToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		var cleared bool
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == SessionCookieName && ck.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared)
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		expired, err := services.CreateSession(testDB, "old@4morgen.com", "Old", "", "")
		require.NoError(t, err)
		testDB.Model(expired).Update("expires_at", time.Now().Add(-time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: expired.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Nil(t, GetCurrentSession(c))
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	session, err := services.CreateSession(testDB, services.PlaceholderEmail, "Suzan", "", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, RedirectIfAuthenticated()(okHandler)(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	assert.NoError(t, RedirectIfAuthenticated()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

	SetSessionCookie(c, &models.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}
