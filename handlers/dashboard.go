package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"law_dashboard_go/config"
	"law_dashboard_go/middleware"
	"law_dashboard_go/services"
	"law_dashboard_go/templates/components"
	"law_dashboard_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// dashboardPage builds the view model for the current session and state
func dashboardPage(c echo.Context, state services.DashboardState) pages.DashboardPage {
	session := middleware.GetCurrentSession(c)
	snap := deps.Snapshots.Get(session.Token, state.TimeRange)
	return pages.NewDashboardPage(
		middleware.GetLocale(c),
		middleware.GetCSRFToken(c),
		session.DisplayName,
		state,
		snap,
		deps.Events,
		deps.Clock.Now(),
	)
}

// DashboardHandler renders the full dashboard
func DashboardHandler(c echo.Context) error {
	page := dashboardPage(c, loadDashboardState(c))
	page.Toast = popFlashToast(c)
	return render(c, pages.Dashboard(page))
}

// DashboardStateHandler applies one state update. Time range, dark mode and
// tab changes answer with the re-rendered shell; a search update only
// stores the term.
func DashboardStateHandler(c echo.Context) error {
	action := services.Action{
		Type:  services.ActionType(c.FormValue("action")),
		Value: c.FormValue("value"),
	}
	switch action.Type {
	case services.ActionSetTimeRange, services.ActionSetSearchTerm, services.ActionToggleDarkMode, services.ActionSelectTab:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown dashboard action")
	}

	state := services.Reduce(loadDashboardState(c), action)
	saveDashboardState(c, state)

	if !middleware.IsHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	if action.Type == services.ActionSetSearchTerm {
		return c.NoContent(http.StatusNoContent)
	}
	return render(c, pages.DashboardShell(dashboardPage(c, state)))
}

// DashboardTabHandler selects a tab and renders the tab area
func DashboardTabHandler(c echo.Context) error {
	tab := c.Param("tab")
	if !services.IsDashboardTab(tab) {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown tab")
	}

	state := services.Reduce(loadDashboardState(c), services.SelectTab(tab))
	saveDashboardState(c, state)

	if !middleware.IsHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return render(c, pages.TabArea(dashboardPage(c, state)))
}

// ChartHandler serves one chart as a standalone document for an iframe
func ChartHandler(c echo.Context) error {
	name := c.Param("name")
	if !services.IsDashboardChart(name) {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown chart")
	}

	session := middleware.GetCurrentSession(c)
	snap := deps.Snapshots.Get(session.Token, services.ParseTimeRange(c.QueryParam("range")))

	options := services.ChartOptions{DarkMode: c.QueryParam("theme") == "dark"}
	if cfg, ok := c.Get("config").(*config.Config); ok {
		options.AssetsHost = cfg.ChartAssetsHost
	}

	html, err := services.RenderChartHTML(name, snap, options)
	if err != nil {
		log.Printf("[WARNING] Failed to render chart %s: %v", name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render chart")
	}
	return c.HTML(http.StatusOK, html)
}

// CalendarEventICSHandler downloads one marketing event as an ICS file
func CalendarEventICSHandler(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(deps.Events) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	event := deps.Events[idx]

	ics, err := services.GenerateEventICS(event, services.DefaultOrganizer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate calendar file")
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.EventICSFilename(event)))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", ics)
}

// ExportReportHandler captures the dashboard region of the caller's own
// dashboard and returns it as a PDF. When nothing could be captured the
// response is 204 and the page stays as it is.
func ExportReportHandler(c echo.Context) error {
	if deps.Exporter == nil {
		return c.NoContent(http.StatusNoContent)
	}

	session := middleware.GetCurrentSession(c)
	cfg, _ := c.Get("config").(*config.Config)
	appURL := "http://localhost:8080"
	if cfg != nil && cfg.AppURL != "" {
		appURL = cfg.AppURL
	}

	report, err := deps.Exporter.Export(c.Request().Context(), services.ExportRequest{
		Target: services.CaptureTarget{
			URL:     strings.TrimRight(appURL, "/") + "/dashboard",
			Cookies: c.Request().Cookies(),
		},
		Subject: session.Subject,
	})
	if err != nil {
		if errors.Is(err, services.ErrExportSkipped) {
			return c.NoContent(http.StatusNoContent)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export dashboard")
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Blob(http.StatusOK, "application/pdf", report.PDF)
}

// exportLimited sends a plain form post over the export limit back to the
// dashboard with the limit message as a toast
func exportLimited(c echo.Context, message string) error {
	setFlashToast(c, components.NewToast(message, "", components.ToastDestructive))
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ExportWorkbookHandler downloads the current trends as an XLSX workbook
func ExportWorkbookHandler(c echo.Context) error {
	session := middleware.GetCurrentSession(c)
	state := loadDashboardState(c)
	snap := deps.Snapshots.Get(session.Token, state.TimeRange)

	buf, err := services.BuildMetricsWorkbook(c.Request().Context(), snap)
	if err != nil {
		log.Printf("[WARNING] %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build workbook")
	}

	if deps.Exporter != nil {
		deps.Exporter.ArchiveWorkbook(c.Request().Context(), session.Subject, buf.Bytes())
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.WorkbookFilename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
