package pages

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"law_dashboard_go/services"
	"law_dashboard_go/services/i18n"
	"law_dashboard_go/templates/components"
)

// LoginPage holds the data for the login form
type LoginPage struct {
	Locale    string
	CSRFToken string
	Email     string
	Toast     *components.Toast
}

// PlaceholderPage is shown for routes that exist only as navigation targets
type PlaceholderPage struct {
	Locale   string
	TitleKey string
}

// Option is a select or tab entry
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ChartFrame embeds one rendered chart
type ChartFrame struct {
	Name    string
	Title   string
	Tooltip string
	Src     string
}

// CalendarEventView is one event line in the calendar tab
type CalendarEventView struct {
	Title     string
	Type      string
	Icon      string
	DateLabel string
	ICSURL    string
}

// CalendarGroupView is one month card in the calendar tab
type CalendarGroupView struct {
	Label  string
	Events []CalendarEventView
}

// TabPanel is the content of the selected tab
type TabPanel struct {
	Locale     string
	Tab        string
	IsCalendar bool
	Cards      []services.MetricCard
	Charts     []ChartFrame
	Calendar   []CalendarGroupView
}

// DashboardPage holds everything the dashboard shell renders
type DashboardPage struct {
	Locale      string
	CSRFToken   string
	DisplayName string
	Initial     string
	State       services.DashboardState
	TimeRanges  []Option
	Tabs        []Option
	Panel       TabPanel
	Toast       *components.Toast
}

// NewDashboardPage assembles the view model from session, state and data
func NewDashboardPage(locale, csrfToken, displayName string, state services.DashboardState, snap services.KPISnapshot, events []services.CalendarEvent, now time.Time) DashboardPage {
	page := DashboardPage{
		Locale:      locale,
		CSRFToken:   csrfToken,
		DisplayName: displayName,
		Initial:     initial(displayName),
		State:       state,
		Panel:       NewTabPanel(locale, state, snap, events, now),
	}

	for _, tr := range services.TimeRanges {
		page.TimeRanges = append(page.TimeRanges, Option{
			Value:    string(tr),
			Label:    i18n.Translate(locale, "dashboard.time_range."+string(tr)),
			Selected: tr == state.TimeRange,
		})
	}
	for _, tab := range services.DashboardTabs {
		page.Tabs = append(page.Tabs, Option{
			Value:    tab,
			Label:    i18n.Translate(locale, "dashboard.tabs."+tab),
			Selected: tab == state.ActiveTab,
		})
	}
	return page
}

// NewTabPanel builds the content of state.ActiveTab
func NewTabPanel(locale string, state services.DashboardState, snap services.KPISnapshot, events []services.CalendarEvent, now time.Time) TabPanel {
	panel := TabPanel{Locale: locale, Tab: state.ActiveTab}

	if state.ActiveTab == services.TabMarketingCalendar {
		panel.IsCalendar = true
		panel.Calendar = calendarGroups(locale, events, now, state.TimeRange)
		return panel
	}

	if kpis, ok := snap.TabKPIs(state.ActiveTab); ok {
		panel.Cards = kpis.Cards
	}
	for _, chart := range services.ChartsForTab(state.ActiveTab) {
		panel.Charts = append(panel.Charts, ChartFrame{
			Name:    chart.Name,
			Title:   chart.Title,
			Tooltip: chart.Tooltip,
			Src:     chartSrc(chart.Name, state),
		})
	}
	return panel
}

// chartSrc varies with range and theme so iframes reload when either changes
func chartSrc(name string, state services.DashboardState) string {
	q := url.Values{}
	q.Set("range", string(state.TimeRange))
	if state.DarkMode {
		q.Set("theme", "dark")
	}
	return fmt.Sprintf("/dashboard/charts/%s?%s", name, q.Encode())
}

func calendarGroups(locale string, events []services.CalendarEvent, now time.Time, tr services.TimeRange) []CalendarGroupView {
	layout := i18n.Translate(locale, "calendar.date_format")
	groups := services.UpcomingEvents(events, now, tr)

	out := make([]CalendarGroupView, 0, len(groups))
	for _, g := range groups {
		view := CalendarGroupView{Label: g.Label}
		for _, e := range g.Events {
			view.Events = append(view.Events, CalendarEventView{
				Title:     e.Title,
				Type:      e.Type,
				Icon:      e.Icon,
				DateLabel: services.FormatEventDate(e.Date, layout),
				ICSURL:    fmt.Sprintf("/dashboard/calendar/%d/ics", eventIndex(events, e)),
			})
		}
		out = append(out, view)
	}
	return out
}

// eventIndex locates e in the full event list; -1 if absent
func eventIndex(events []services.CalendarEvent, e services.CalendarEvent) int {
	for i, candidate := range events {
		if candidate.Date.Equal(e.Date) && candidate.Title == e.Title && candidate.Type == e.Type {
			return i
		}
	}
	return -1
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}
