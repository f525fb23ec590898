package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

// Chart names served under /dashboard/charts/:name
const (
	ChartNewClients        = "new-clients"
	ChartLeadConversion    = "lead-conversion"
	ChartNPS               = "nps"
	ChartSatisfaction      = "satisfaction"
	ChartMarketShare       = "market-share"
	ChartCompetitive       = "competitive"
	ChartInitiativeSuccess = "initiative-success"
	ChartServiceAdoption   = "service-adoption"
)

// ChartSpec describes one dashboard chart
type ChartSpec struct {
	Name    string
	Tab     string
	Title   string
	Tooltip string
}

// DashboardCharts lists the charts in display order, two per KPI tab
var DashboardCharts = []ChartSpec{
	{ChartNewClients, TabClientAcquisition, "New Clients Trend", "Shows the number of new clients acquired each month"},
	{ChartLeadConversion, TabClientAcquisition, "Lead-to-Client Conversion Analysis", "Displays the conversion rate at each stage of the sales funnel"},
	{ChartNPS, TabClientRelationship, "NPS Over Time", "Shows how the Net Promoter Score has changed over the months"},
	{ChartSatisfaction, TabClientRelationship, "Client Satisfaction Analysis", "Breaks down client satisfaction scores across different aspects of service"},
	{ChartMarketShare, TabMarketPositioning, "Market Share Trend", "Illustrates how the firm's market share has changed over time"},
	{ChartCompetitive, TabMarketPositioning, "Competitive Analysis", "Compares the firm's performance against key competitors"},
	{ChartInitiativeSuccess, TabStrategicInitiatives, "Initiative Success Rate", "Shows the success rate of different strategic initiatives"},
	{ChartServiceAdoption, TabStrategicInitiatives, "New Service Adoption Trend", "Tracks the adoption rate of newly introduced services over time"},
}

// ChartsForTab returns the chart specs shown on a tab
func ChartsForTab(tab string) []ChartSpec {
	var out []ChartSpec
	for _, c := range DashboardCharts {
		if c.Tab == tab {
			out = append(out, c)
		}
	}
	return out
}

// IsDashboardChart reports whether name is a servable chart
func IsDashboardChart(name string) bool {
	for _, c := range DashboardCharts {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ChartOptions controls presentation only
type ChartOptions struct {
	DarkMode   bool
	AssetsHost string
}

// RenderChart writes the named chart as a standalone ECharts HTML page
func RenderChart(w io.Writer, name string, snap KPISnapshot, options ChartOptions) error {
	var renderable interface{ Render(io.Writer) error }

	switch name {
	case ChartNewClients:
		renderable = trendChart(snap.NewClientsTrend, "Number of New Clients", func(p MetricPoint) int { return p.Clients }, true, options)
	case ChartNPS:
		renderable = trendChart(snap.NPSOverTime, "Net Promoter Score", func(p MetricPoint) int { return p.NPS }, false, options)
	case ChartMarketShare:
		renderable = trendChart(snap.MarketShareTrend, "Market Share (%)", func(p MetricPoint) int { return p.Share }, false, options)
	case ChartServiceAdoption:
		renderable = trendChart(snap.NewServiceAdoption, "Adoption Rate (%)", func(p MetricPoint) int { return p.Adoption }, false, options)
	case ChartLeadConversion:
		renderable = breakdownChart(snap.ClientAcquisition.Breakdown, "Conversion Rate (%)", true, options)
	case ChartSatisfaction:
		renderable = breakdownChart(snap.ClientRelationship.Breakdown, "Satisfaction Score", true, options)
	case ChartCompetitive:
		renderable = breakdownChart(snap.MarketPositioning.Breakdown, "Performance Score", true, options)
	case ChartInitiativeSuccess:
		renderable = breakdownChart(snap.StrategicInitiatives.Breakdown, "Success Rate (%)", false, options)
	default:
		return fmt.Errorf("unknown chart: %s", name)
	}

	return renderable.Render(w)
}

// RenderChartHTML renders a chart into a string
func RenderChartHTML(name string, snap KPISnapshot, options ChartOptions) (string, error) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, name, snap, options); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func trendChart(points []MetricPoint, yName string, value func(MetricPoint) int, area bool, options ChartOptions) *charts.Line {
	months := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		months[i] = p.Month
		data[i] = opts.LineData{Name: p.Month, Value: value(p)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globalChartOptions(options,
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)...)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: AccentColor}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: AccentColor}),
	}
	if area {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Color: AccentColor}))
	}

	line.SetXAxis(months).AddSeries(yName, data, seriesOpts...)
	return line
}

func breakdownChart(items []Breakdown, valueName string, horizontal bool, options ChartOptions) *charts.Bar {
	labels := make([]string, len(items))
	data := make([]opts.BarData, len(items))
	for i, item := range items {
		labels[i] = item.Label
		data[i] = opts.BarData{Name: item.Label, Value: item.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalChartOptions(options)...)
	bar.SetXAxis(labels).AddSeries(valueName, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: AccentColor}))
	if horizontal {
		bar.XYReversal()
	}
	return bar
}

func globalChartOptions(options ChartOptions, extra ...charts.GlobalOpts) []charts.GlobalOpts {
	theme := types.ThemeWesteros
	if options.DarkMode {
		theme = types.ThemeChalk
	}

	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if options.AssetsHost != "" {
		initOpts.AssetsHost = options.AssetsHost
	}

	return append([]charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}, extra...)
}
