package handlers

import (
	"net/http"

	"law_dashboard_go/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts every page and endpoint on e. Global middleware
// (config, locale, CSRF, CSP) is installed by the caller.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", HealthHandler)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	})

	// Public routes (no authentication required)
	public := e.Group("")
	public.Use(middleware.RedirectIfAuthenticated())
	{
		public.GET("/login", LoginHandler)
		public.POST("/login", LoginPostHandler)
		public.GET("/register", RegisterHandler)
		public.GET("/forgot-password", ForgotPasswordHandler)
	}

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", LogoutHandler)

		protected.GET("/dashboard", DashboardHandler)
		protected.POST("/dashboard/state", DashboardStateHandler)
		protected.GET("/dashboard/tabs/:tab", DashboardTabHandler)
		protected.GET("/dashboard/charts/:name", ChartHandler)
		protected.GET("/dashboard/calendar/:index/ics", CalendarEventICSHandler)
		protected.POST("/dashboard/export", ExportReportHandler, middleware.ExportRateLimiter.WithFallback(exportLimited))
		protected.GET("/dashboard/export.xlsx", ExportWorkbookHandler)
	}
}
