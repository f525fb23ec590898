package services

import (
	"bytes"
	"context"
	"fmt"

	"law_dashboard_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

type workbookTrend struct {
	sheetKey  string
	columnKey string
	points    []MetricPoint
	value     func(MetricPoint) int
}

// BuildMetricsWorkbook writes the four trends of a snapshot into an XLSX
// workbook: a summary sheet with the KPI cards, then one sheet per trend.
// Labels follow the locale in ctx.
func BuildMetricsWorkbook(ctx context.Context, snap KPISnapshot) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{AccentColor[1:]}},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})

	// --- Summary Sheet ---
	summary := i18n.T(ctx, "workbook.summary")
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", i18n.T(ctx, "app.title"))
	f.SetCellStyle(summary, "A1", "A1", titleStyle)
	f.SetCellValue(summary, "A2", i18n.T(ctx, "workbook.time_range"))
	f.SetCellValue(summary, "B2", i18n.T(ctx, "dashboard.time_range."+string(snap.TimeRange)))
	f.SetCellValue(summary, "A3", i18n.T(ctx, "workbook.generated_at"))
	f.SetCellValue(summary, "B3", snap.GeneratedAt.Format("2006-01-02 15:04"))

	row := 5
	for _, tab := range DashboardTabs {
		kpis, ok := snap.TabKPIs(tab)
		if !ok {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(summary, cell, i18n.T(ctx, "dashboard.tabs."+tab))
		f.SetCellStyle(summary, cell, cell, headerStyle)
		row++
		for _, card := range kpis.Cards {
			f.SetCellValue(summary, fmt.Sprintf("A%d", row), card.Title)
			f.SetCellValue(summary, fmt.Sprintf("B%d", row), card.Value)
			f.SetCellValue(summary, fmt.Sprintf("C%d", row), card.Trend)
			row++
		}
		row++
	}
	f.SetColWidth(summary, "A", "A", 40)
	f.SetColWidth(summary, "B", "C", 24)

	// --- Trend Sheets ---
	trends := []workbookTrend{
		{"new_clients", "clients", snap.NewClientsTrend, func(p MetricPoint) int { return p.Clients }},
		{"nps", "nps", snap.NPSOverTime, func(p MetricPoint) int { return p.NPS }},
		{"market_share", "share", snap.MarketShareTrend, func(p MetricPoint) int { return p.Share }},
		{"service_adoption", "adoption", snap.NewServiceAdoption, func(p MetricPoint) int { return p.Adoption }},
	}

	for _, trend := range trends {
		sheet := i18n.T(ctx, "workbook.sheets."+trend.sheetKey)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		f.SetCellValue(sheet, "A1", i18n.T(ctx, "workbook.month"))
		f.SetCellValue(sheet, "B1", i18n.T(ctx, "workbook.columns."+trend.columnKey))
		f.SetCellStyle(sheet, "A1", "B1", headerStyle)

		for i, p := range trend.points {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), p.Month)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), trend.value(p))
		}
		f.SetColWidth(sheet, "A", "B", 16)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
