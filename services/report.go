package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	// ReportFilename is the download name of the exported dashboard
	ReportFilename = "law-firm-dashboard.pdf"

	// WorkbookFilename is the download name of the metrics workbook
	WorkbookFilename = "law-firm-dashboard.xlsx"

	defaultExportTimeout = 60 * time.Second
)

// ErrExportSkipped means nothing was produced; callers answer without a file
var ErrExportSkipped = errors.New("dashboard export skipped")

// ExportRequest identifies the page to export and who asked for it
type ExportRequest struct {
	Target  CaptureTarget
	Subject string
}

// Report is a finished export
type Report struct {
	Filename string
	PDF      []byte
	Archived *StorageResult
}

// ReportExporter captures the dashboard region and assembles it into a PDF.
// Archive is optional; a nil Archive keeps reports download-only.
type ReportExporter struct {
	Capturer  Capturer
	Assembler PDFAssembler
	Archive   StorageProvider
	Timeout   time.Duration
	Clock     Clock
}

// NewReportExporter wires a Chrome renderer for both stages
func NewReportExporter(renderer *ChromeRenderer, archive StorageProvider) *ReportExporter {
	return &ReportExporter{
		Capturer:  renderer,
		Assembler: renderer,
		Archive:   archive,
		Timeout:   defaultExportTimeout,
		Clock:     SystemClock{},
	}
}

// Export runs one capture. Every capture or assembly failure is logged and
// reported as ErrExportSkipped.
func (e *ReportExporter) Export(ctx context.Context, req ExportRequest) (*Report, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultExportTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := req.Target
	if target.Selector == "" {
		target.Selector = DashboardRegionSelector
	}
	if target.Scale <= 0 {
		target.Scale = CaptureScale
	}

	bmp, err := e.Capturer.Capture(ctx, target)
	if err != nil {
		log.Printf("[WARNING] Dashboard capture failed for %s: %v", req.Subject, err)
		return nil, fmt.Errorf("%w: %v", ErrExportSkipped, err)
	}

	pdf, err := e.Assembler.AssemblePDF(ctx, bmp)
	if err != nil {
		log.Printf("[WARNING] Dashboard PDF assembly failed for %s: %v", req.Subject, err)
		return nil, fmt.Errorf("%w: %v", ErrExportSkipped, err)
	}

	report := &Report{Filename: ReportFilename, PDF: pdf}

	if e.Archive != nil {
		report.Archived = e.archive(ctx, req.Subject, ReportFilename, pdf, "application/pdf")
	}

	log.Printf("[INFO] Dashboard exported for %s (%dx%d px, %d bytes)", req.Subject, bmp.Width, bmp.Height, len(pdf))
	return report, nil
}

// ArchiveWorkbook stores a workbook when archiving is enabled
func (e *ReportExporter) ArchiveWorkbook(ctx context.Context, subject string, data []byte) *StorageResult {
	if e.Archive == nil {
		return nil
	}
	return e.archive(ctx, subject, WorkbookFilename, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (e *ReportExporter) archive(ctx context.Context, subject, filename string, data []byte, contentType string) *StorageResult {
	clock := e.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	key := GenerateReportKey(subject, filename, clock.Now())
	result, err := storeBytes(ctx, e.Archive, data, key, contentType)
	if err != nil {
		log.Printf("[WARNING] Failed to archive %s: %v", key, err)
		return nil
	}
	return result
}
