package handlers

import (
	"errors"
	"net/http"

	"law_dashboard_go/db"
	"law_dashboard_go/services"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Dependencies are the long-lived services the handlers share
type Dependencies struct {
	Authenticator services.Authenticator
	Snapshots     *services.SnapshotStore
	Exporter      *services.ReportExporter
	Events        []services.CalendarEvent
	Clock         services.Clock
}

var deps = Dependencies{
	Events: services.DefaultMarketingEvents(),
	Clock:  services.SystemClock{},
}

// Configure installs the handler dependencies. Call once at startup before
// serving requests.
func Configure(d Dependencies) {
	if d.Events == nil {
		d.Events = services.DefaultMarketingEvents()
	}
	if d.Clock == nil {
		d.Clock = services.SystemClock{}
	}
	if d.Snapshots == nil {
		d.Snapshots = services.NewSnapshotStore(services.NewMetricsGenerator(d.Clock, nil), 0)
	}
	deps = d
}

// render writes a component as the response body
func render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// renderStatus writes a component with a non-200 status
func renderStatus(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// redirect sends htmx requests an HX-Redirect and everything else a 303
func redirect(c echo.Context, path string) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// HealthHandler reports liveness and database reachability
func HealthHandler(c echo.Context) error {
	if err := pingDB(c); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func pingDB(c echo.Context) error {
	if db.DB == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.Request().Context())
}
