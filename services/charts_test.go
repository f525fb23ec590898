package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() KPISnapshot {
	gen := NewMetricsGenerator(FixedClock{At: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}, rand.New(rand.NewSource(5)))
	return BuildKPISnapshot(gen, TimeRange3M)
}

func TestRenderChart(t *testing.T) {
	snap := testSnapshot()

	for _, chart := range DashboardCharts {
		t.Run(chart.Name, func(t *testing.T) {
			html, err := RenderChartHTML(chart.Name, snap, ChartOptions{})
			require.NoError(t, err)
			assert.Contains(t, html, "echarts")
			assert.Contains(t, html, AccentColor)
		})
	}
}

func TestRenderChart_TrendLabels(t *testing.T) {
	html, err := RenderChartHTML(ChartNPS, testSnapshot(), ChartOptions{DarkMode: true})
	require.NoError(t, err)
	assert.Contains(t, html, "Dec")
	assert.Contains(t, html, "Feb")
	assert.Contains(t, html, "Net Promoter Score")
}

func TestRenderChart_Unknown(t *testing.T) {
	_, err := RenderChartHTML("pie-in-the-sky", testSnapshot(), ChartOptions{})
	assert.Error(t, err)
}

func TestChartsForTab(t *testing.T) {
	assert.Len(t, ChartsForTab(TabClientAcquisition), 2)
	assert.Len(t, ChartsForTab(TabStrategicInitiatives), 2)
	assert.Empty(t, ChartsForTab(TabMarketingCalendar))
}

func TestIsDashboardChart(t *testing.T) {
	for _, chart := range DashboardCharts {
		assert.True(t, IsDashboardChart(chart.Name), chart.Name)
	}
	assert.False(t, IsDashboardChart("pie-in-the-sky"))
}
