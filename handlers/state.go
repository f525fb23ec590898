package handlers

import (
	"encoding/base64"
	"log"
	"net/http"

	"law_dashboard_go/config"
	"law_dashboard_go/services"
	"law_dashboard_go/templates/components"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var cookieJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DashboardStateCookie carries the UI state between requests
	DashboardStateCookie = "dashboard_state"
	// FlashToastCookie carries one toast across a redirect
	FlashToastCookie = "flash_toast"
)

// loadDashboardState reads the state cookie; a missing or broken cookie
// yields the default state.
func loadDashboardState(c echo.Context) services.DashboardState {
	cookie, err := c.Cookie(DashboardStateCookie)
	if err != nil || cookie.Value == "" {
		return services.DefaultDashboardState()
	}
	state, err := services.DecodeDashboardState(cookie.Value)
	if err != nil {
		log.Printf("[WARNING] Ignoring invalid dashboard state cookie: %v", err)
		return services.DefaultDashboardState()
	}
	return state
}

func saveDashboardState(c echo.Context, state services.DashboardState) {
	value, err := services.EncodeDashboardState(state)
	if err != nil {
		log.Printf("[WARNING] %v", err)
		return
	}
	c.SetCookie(stateCookie(c, DashboardStateCookie, value, 0))
}

func clearDashboardState(c echo.Context) {
	c.SetCookie(stateCookie(c, DashboardStateCookie, "", -1))
}

// setFlashToast stores a toast for the next full page render
func setFlashToast(c echo.Context, toast *components.Toast) {
	b, err := cookieJSON.Marshal(toast)
	if err != nil {
		return
	}
	c.SetCookie(stateCookie(c, FlashToastCookie, base64.RawURLEncoding.EncodeToString(b), 60))
}

// popFlashToast returns and clears the pending toast, if any
func popFlashToast(c echo.Context) *components.Toast {
	cookie, err := c.Cookie(FlashToastCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(stateCookie(c, FlashToastCookie, "", -1))

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var toast components.Toast
	if err := cookieJSON.Unmarshal(raw, &toast); err != nil || toast.Title == "" {
		return nil
	}
	return &toast
}

func stateCookie(c echo.Context, name, value string, maxAge int) *http.Cookie {
	cfg, _ := c.Get("config").(*config.Config)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
