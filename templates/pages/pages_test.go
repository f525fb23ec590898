package pages

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"law_dashboard_go/middleware"
	"law_dashboard_go/services"
	"law_dashboard_go/services/i18n"
	"law_dashboard_go/templates/components"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func snapshot(tr services.TimeRange) services.KPISnapshot {
	gen := services.NewMetricsGenerator(services.FixedClock{At: now}, rand.New(rand.NewSource(3)))
	return services.BuildKPISnapshot(gen, tr)
}

func TestNewDashboardPage(t *testing.T) {
	require.NoError(t, i18n.Load())
	state := services.DefaultDashboardState()
	page := NewDashboardPage("en", "tok", "suzan", state, snapshot(state.TimeRange), services.DefaultMarketingEvents(), now)

	assert.Equal(t, "S", page.Initial)
	require.Len(t, page.TimeRanges, 3)
	assert.False(t, page.TimeRanges[0].Selected)
	assert.Equal(t, "Last 3 Months", page.TimeRanges[0].Label)
	assert.True(t, page.TimeRanges[1].Selected)
	assert.Equal(t, "Last 6 Months", page.TimeRanges[1].Label)
	assert.Len(t, page.Tabs, 5)
	assert.True(t, page.Tabs[0].Selected)

	assert.Len(t, page.Panel.Cards, 4)
	require.Len(t, page.Panel.Charts, 2)
	assert.Equal(t, "/dashboard/charts/new-clients?range=6M", page.Panel.Charts[0].Src)
	assert.False(t, page.Panel.IsCalendar)
}

func TestNewTabPanel_Calendar(t *testing.T) {
	require.NoError(t, i18n.Load())
	events := services.DefaultMarketingEvents()
	state := services.Reduce(services.DefaultDashboardState(), services.SetTimeRange("3M"))
	state = services.Reduce(state, services.SelectTab(services.TabMarketingCalendar))

	panel := NewTabPanel("nl", state, snapshot(state.TimeRange), events, now)
	require.True(t, panel.IsCalendar)
	assert.Empty(t, panel.Cards)

	// 2024-01-15 with 3M covers Jan 25 through the end of March
	require.Len(t, panel.Calendar, 3)
	assert.Equal(t, "January 2024", panel.Calendar[0].Label)
	require.Len(t, panel.Calendar[0].Events, 1)

	first := panel.Calendar[0].Events[0]
	assert.Equal(t, "GDPR Compliance for Dutch Businesses", first.Title)
	assert.Equal(t, "25-1-2024", first.DateLabel)
	assert.Equal(t, "/dashboard/calendar/1/ics", first.ICSURL)
}

func TestNewTabPanel_CalendarDefaultRange(t *testing.T) {
	require.NoError(t, i18n.Load())
	state := services.Reduce(services.DefaultDashboardState(), services.SelectTab(services.TabMarketingCalendar))
	require.Equal(t, services.TimeRange6M, state.TimeRange)

	// 2024-01-15 with 6M covers Jan 25 through the end of June
	panel := NewTabPanel("en", state, snapshot(state.TimeRange), services.DefaultMarketingEvents(), now)
	require.Len(t, panel.Calendar, 6)
	assert.Equal(t, "January 2024", panel.Calendar[0].Label)
	assert.Equal(t, "June 2024", panel.Calendar[5].Label)

	total := 0
	for _, g := range panel.Calendar {
		total += len(g.Events)
	}
	assert.Equal(t, 11, total)

	last := panel.Calendar[5].Events[len(panel.Calendar[5].Events)-1]
	assert.Equal(t, "Negotiation Strategies in Dutch Courts", last.Title)
	assert.Equal(t, "6/20/2024", last.DateLabel)
}

func TestChartSrcDarkMode(t *testing.T) {
	state := services.Reduce(services.DefaultDashboardState(), services.ToggleDarkMode())
	assert.Equal(t, "/dashboard/charts/nps?range=6M&theme=dark", chartSrc("nps", state))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "?", initial("  "))
	assert.Equal(t, "É", initial("élodie"))
}

func TestLoginRender(t *testing.T) {
	require.NoError(t, i18n.Load())
	ctx := context.WithValue(context.Background(), middleware.NonceKey, "n0nce")

	var buf bytes.Buffer
	err := Login(LoginPage{
		Locale:    "en",
		CSRFToken: "csrf-123",
		Toast:     components.NewToast("Login Failed", "Invalid email or password. Please try again.", components.ToastDestructive),
	}).Render(ctx, &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `nonce="n0nce"`)
	assert.Contains(t, html, `name="_csrf" value="csrf-123"`)
	assert.Contains(t, html, "toast-destructive")
	assert.Contains(t, html, "Log in to your account")
	assert.Contains(t, html, "/static/css/dashboard.css?v=")
}

func TestDashboardRender(t *testing.T) {
	require.NoError(t, i18n.Load())
	state := services.Reduce(services.DefaultDashboardState(), services.SetSearchTerm(`"><script>`))
	page := NewDashboardPage("en", "tok", "Suzan", state, snapshot(state.TimeRange), services.DefaultMarketingEvents(), now)

	var buf bytes.Buffer
	require.NoError(t, Dashboard(page).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `<main id="dashboard-main">`)
	assert.Contains(t, html, "New Clients Trend")
	assert.NotContains(t, html, "<script>\"")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`id="toast-region"`)))

	buf.Reset()
	require.NoError(t, DashboardShell(page).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<html")
	assert.Contains(t, buf.String(), `id="dashboard-shell"`)

	buf.Reset()
	require.NoError(t, TabArea(page).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `id="tab-area"`)
	assert.NotContains(t, buf.String(), `id="dashboard-shell"`)
}

func TestPlaceholderRender(t *testing.T) {
	require.NoError(t, i18n.Load())
	var buf bytes.Buffer
	require.NoError(t, Placeholder(PlaceholderPage{Locale: "en", TitleKey: "placeholder.register"}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Account registration")
	assert.Contains(t, buf.String(), `href="/login"`)
}
