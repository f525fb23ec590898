package middleware

import (
	"net/http"

	"law_dashboard_go/config"
	"law_dashboard_go/db"
	"law_dashboard_go/models"
	"law_dashboard_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "dashboard_session"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// RequireAuth lets a request through only with a valid session cookie.
// Everything else is sent to /login; htmx requests get an HX-Redirect.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return redirectToLogin(c)
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				if err != services.ErrSessionNotFound && err != services.ErrSessionExpired {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate session")
				}
				ClearSessionCookie(c)
				return redirectToLogin(c)
			}

			c.Set(ContextKeySession, session)
			return next(c)
		}
	}
}

// RedirectIfAuthenticated sends users who already hold a session to the dashboard
func RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if _, err := services.ValidateSession(db.DB, cookie.Value); err == nil {
					return c.Redirect(http.StatusSeeOther, "/dashboard")
				}
			}
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// GetCurrentSession retrieves the current session from context
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// SetSessionCookie issues the session cookie for a new session
func SetSessionCookie(c echo.Context, session *models.Session) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func isProduction(c echo.Context) bool {
	cfg, ok := c.Get("config").(*config.Config)
	return ok && cfg.IsProduction()
}
