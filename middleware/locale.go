package middleware

import (
	"net/http"
	"strings"
	"time"

	"law_dashboard_go/config"
	"law_dashboard_go/services/i18n"

	"github.com/labstack/echo/v4"
)

const (
	// LocaleCookieName persists the chosen language
	LocaleCookieName = "lang"
	// ContextKeyLocale is the echo context key for the request locale
	ContextKeyLocale = "locale"
)

// Locale middleware picks the request language.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. cfg.DefaultLocale
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := ""

			if q := c.QueryParam("lang"); q != "" {
				lang = supportedOr(q, cfg.DefaultLocale)
				SetLanguageCookie(c, lang)
			} else if cookie, err := c.Cookie(LocaleCookieName); err == nil {
				lang = supportedOr(cookie.Value, "")
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"), cfg.DefaultLocale)
			}

			c.Set(ContextKeyLocale, lang)

			// Request context carries the locale into templates and services
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// fromAcceptLanguage returns the first supported tag in header order
func fromAcceptLanguage(header, fallback string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if base != "" && i18n.IsSupported(base) {
			return base
		}
	}
	return supportedOr(fallback, i18n.DefaultLocale)
}

func supportedOr(lang, fallback string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i18n.IsSupported(lang) {
		return lang
	}
	return fallback
}

// SetLanguageCookie sets the language cookie for one year
func SetLanguageCookie(c echo.Context, lang string) {
	c.SetCookie(&http.Cookie{
		Name:     LocaleCookieName,
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get(ContextKeyLocale).(string); ok {
		return lang
	}
	return i18n.DefaultLocale
}
