package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"law_dashboard_go/db"
	"law_dashboard_go/middleware"
	"law_dashboard_go/services"
	"law_dashboard_go/services/i18n"
	"law_dashboard_go/templates/components"
	"law_dashboard_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// LoginHandler renders the login page
func LoginHandler(c echo.Context) error {
	return render(c, pages.Login(pages.LoginPage{
		Locale:    middleware.GetLocale(c),
		CSRFToken: middleware.GetCSRFToken(c),
		Toast:     popFlashToast(c),
	}))
}

// LoginPostHandler checks the submitted credentials. Success opens a session
// and sends the browser to the dashboard; failure shows a toast and keeps
// the user on the login page.
func LoginPostHandler(c echo.Context) error {
	locale := middleware.GetLocale(c)
	creds := services.Credentials{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	outcome, err := deps.Authenticator.Verify(c.Request().Context(), creds)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The browser went away mid-login; nobody is left to answer
			return nil
		}
		log.Printf("[WARNING] Login check failed for %s: %v", creds.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify credentials")
	}

	if !outcome.OK {
		services.LogSecurityEvent("LOGIN_FAILED", creds.Email, "ip="+c.RealIP())
		if services.Monitor != nil {
			services.Monitor.TrackFailedLogin(creds.Email, c.RealIP())
		}

		toast := components.NewToast(
			i18n.Translate(locale, "toast.login_failed.title"),
			i18n.Translate(locale, "toast.login_failed.description"),
			components.ToastDestructive,
		)
		if middleware.IsHTMX(c) {
			c.Response().Header().Set("HX-Trigger", toast.TriggerHeader())
			return c.NoContent(http.StatusOK)
		}
		return render(c, pages.Login(pages.LoginPage{
			Locale:    locale,
			CSRFToken: middleware.GetCSRFToken(c),
			Email:     creds.Email,
			Toast:     toast,
		}))
	}

	session, err := services.CreateSession(db.DB, outcome.Subject, outcome.DisplayName, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		log.Printf("[WARNING] %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	services.LogSecurityEvent("LOGIN_SUCCESS", session.Subject, "ip="+c.RealIP())

	middleware.SetSessionCookie(c, session)
	clearDashboardState(c)
	setFlashToast(c, components.NewToast(
		i18n.Translate(locale, "toast.login_success.title"),
		i18n.Translate(locale, "toast.login_success.description", map[string]interface{}{"name": session.DisplayName}),
		components.ToastDefault,
	))

	return redirect(c, "/dashboard")
}

// LogoutHandler ends the session and returns to the login page
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			log.Printf("[WARNING] %v", err)
		}
		if deps.Snapshots != nil {
			deps.Snapshots.Forget(cookie.Value)
		}
	}

	middleware.ClearSessionCookie(c)
	clearDashboardState(c)

	return redirect(c, "/login")
}

// RegisterHandler is the "Create account" link target
func RegisterHandler(c echo.Context) error {
	return placeholder(c, "placeholder.register")
}

// ForgotPasswordHandler is the "Forgot your password?" link target
func ForgotPasswordHandler(c echo.Context) error {
	return placeholder(c, "placeholder.forgot_password")
}

func placeholder(c echo.Context, titleKey string) error {
	return render(c, pages.Placeholder(pages.PlaceholderPage{
		Locale:   middleware.GetLocale(c),
		TitleKey: titleKey,
	}))
}
