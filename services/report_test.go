package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	bmp    *Bitmap
	err    error
	target CaptureTarget
	calls  int
}

func (f *fakeCapturer) Capture(ctx context.Context, target CaptureTarget) (*Bitmap, error) {
	f.calls++
	f.target = target
	return f.bmp, f.err
}

type fakeAssembler struct {
	pdf []byte
	err error
	got *Bitmap
}

func (f *fakeAssembler) AssemblePDF(ctx context.Context, bmp *Bitmap) ([]byte, error) {
	f.got = bmp
	return f.pdf, f.err
}

func TestReportExporter_Export(t *testing.T) {
	bmp := &Bitmap{PNG: []byte("png"), Width: 2880, Height: 1800}
	capturer := &fakeCapturer{bmp: bmp}
	assembler := &fakeAssembler{pdf: []byte("%PDF-1.7")}

	exporter := &ReportExporter{Capturer: capturer, Assembler: assembler}

	report, err := exporter.Export(context.Background(), ExportRequest{
		Target:  CaptureTarget{URL: "http://localhost:8080/dashboard"},
		Subject: "suzan@4morgen.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "law-firm-dashboard.pdf", report.Filename)
	assert.Equal(t, []byte("%PDF-1.7"), report.PDF)
	assert.Nil(t, report.Archived)

	// defaults applied to the capture target
	assert.Equal(t, DashboardRegionSelector, capturer.target.Selector)
	assert.Equal(t, CaptureScale, capturer.target.Scale)
	assert.Same(t, bmp, assembler.got)
}

func TestReportExporter_CaptureFailureSkips(t *testing.T) {
	capturer := &fakeCapturer{err: ErrCaptureTargetMissing}
	assembler := &fakeAssembler{}

	exporter := &ReportExporter{Capturer: capturer, Assembler: assembler}

	report, err := exporter.Export(context.Background(), ExportRequest{Subject: "suzan@4morgen.com"})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrExportSkipped)
	assert.Nil(t, assembler.got, "assembler must not run without a bitmap")
}

func TestReportExporter_AssemblyFailureSkips(t *testing.T) {
	exporter := &ReportExporter{
		Capturer:  &fakeCapturer{bmp: &Bitmap{PNG: []byte("png"), Width: 1, Height: 1}},
		Assembler: &fakeAssembler{err: errors.New("printer on fire")},
	}

	_, err := exporter.Export(context.Background(), ExportRequest{})
	assert.ErrorIs(t, err, ErrExportSkipped)
}

func TestReportExporter_Archive(t *testing.T) {
	dir := t.TempDir()
	exporter := &ReportExporter{
		Capturer:  &fakeCapturer{bmp: &Bitmap{PNG: []byte("png"), Width: 10, Height: 10}},
		Assembler: &fakeAssembler{pdf: []byte("%PDF-1.7")},
		Archive:   NewLocalStorage(dir),
		Clock:     FixedClock{At: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
	}

	report, err := exporter.Export(context.Background(), ExportRequest{Subject: "suzan@4morgen.com"})
	require.NoError(t, err)
	require.NotNil(t, report.Archived)

	data, err := os.ReadFile(filepath.Join(dir, report.Archived.Key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	wb := exporter.ArchiveWorkbook(context.Background(), "suzan@4morgen.com", []byte("PK"))
	require.NotNil(t, wb)
	assert.Equal(t, ".xlsx", filepath.Ext(wb.Key))
}

func TestReportExporter_ArchiveWorkbookDisabled(t *testing.T) {
	exporter := &ReportExporter{}
	assert.Nil(t, exporter.ArchiveWorkbook(context.Background(), "x", []byte("PK")))
}
