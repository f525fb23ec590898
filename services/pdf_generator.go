package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	// CaptureScale matches a 2x device pixel ratio
	CaptureScale = 2.0

	// DashboardRegionSelector is the element exported as a report
	DashboardRegionSelector = "#dashboard-main"

	captureViewportWidth  = 1440
	captureViewportHeight = 900
	captureSettleDelay    = 750 * time.Millisecond

	// CSS reference pixel density used by Chrome's print pipeline
	cssPixelsPerInch = 96.0
)

// ErrCaptureTargetMissing is returned when the page has no export region
var ErrCaptureTargetMissing = errors.New("capture target not found")

// Bitmap is a captured PNG with its pixel size
type Bitmap struct {
	PNG    []byte
	Width  int
	Height int
}

// CaptureTarget describes the page region to rasterize
type CaptureTarget struct {
	URL      string
	Selector string
	Scale    float64
	Cookies  []*http.Cookie
}

// Capturer rasterizes a page region
type Capturer interface {
	Capture(ctx context.Context, target CaptureTarget) (*Bitmap, error)
}

// PDFAssembler turns a bitmap into a single-page PDF
type PDFAssembler interface {
	AssemblePDF(ctx context.Context, bmp *Bitmap) ([]byte, error)
}

// ChromeRenderer captures and assembles using headless Chrome
type ChromeRenderer struct {
	ChromePath string
}

// NewChromeRenderer creates a renderer; an empty path uses chromedp's lookup
func NewChromeRenderer(chromePath string) *ChromeRenderer {
	return &ChromeRenderer{ChromePath: chromePath}
}

// browserContext starts a fresh headless browser bound to parent
func (r *ChromeRenderer) browserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Custom Chrome path (headless-shell in Docker)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	return ctx, func() {
		cancel()
		allocCancel()
	}
}

// Capture loads target.URL with the caller's cookies and screenshots the
// selected element at target.Scale.
func (r *ChromeRenderer) Capture(ctx context.Context, target CaptureTarget) (*Bitmap, error) {
	selector := target.Selector
	if selector == "" {
		selector = DashboardRegionSelector
	}
	scale := target.Scale
	if scale <= 0 {
		scale = CaptureScale
	}

	browserCtx, cancel := r.browserContext(ctx)
	defer cancel()

	var (
		found bool
		shot  []byte
	)

	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(captureViewportWidth, captureViewportHeight),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range target.Cookies {
				if err := network.SetCookie(c.Name, c.Value).WithURL(target.URL).Do(ctx); err != nil {
					return fmt.Errorf("failed to set cookie %s: %w", c.Name, err)
				}
			}
			return nil
		}),
		chromedp.Navigate(target.URL),
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%q) !== null", selector), &found),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	if !found {
		return nil, ErrCaptureTargetMissing
	}

	// Let charts finish their first paint
	err = chromedp.Run(browserCtx,
		chromedp.Sleep(captureSettleDelay),
		chromedp.ScreenshotScale(selector, scale, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", selector, err)
	}

	return NewBitmap(shot)
}

// AssemblePDF prints the bitmap onto one landscape page of exactly its pixel size
func (r *ChromeRenderer) AssemblePDF(ctx context.Context, bmp *Bitmap) ([]byte, error) {
	if bmp == nil || len(bmp.PNG) == 0 {
		return nil, fmt.Errorf("no bitmap to assemble")
	}

	browserCtx, cancel := r.browserContext(ctx)
	defer cancel()

	html := bitmapPageHTML(bmp)
	pageW, pageH := bmp.PageSize()
	var pdfBuf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("img", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(float64(pageW) / cssPixelsPerInch).
				WithPaperHeight(float64(pageH) / cssPixelsPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// NewBitmap reads the pixel size from a PNG header
func NewBitmap(pngData []byte) (*Bitmap, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to read bitmap size: %w", err)
	}
	return &Bitmap{PNG: pngData, Width: cfg.Width, Height: cfg.Height}, nil
}

// PageSize returns the page dimensions with the long edge horizontal
func (b *Bitmap) PageSize() (width, height int) {
	if b.Height > b.Width {
		return b.Height, b.Width
	}
	return b.Width, b.Height
}

// bitmapPageHTML lays the image out full-bleed on a margin-free landscape
// page. Portrait captures are turned a quarter counterclockwise to fit.
func bitmapPageHTML(bmp *Bitmap) string {
	pageW, pageH := bmp.PageSize()
	transform := "none"
	if bmp.Height > bmp.Width {
		transform = fmt.Sprintf("translateY(%dpx) rotate(-90deg)", bmp.Width)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
@page { size: %[1]dpx %[2]dpx; margin: 0; }
html, body { margin: 0; padding: 0; width: %[1]dpx; height: %[2]dpx; overflow: hidden; }
img { display: block; width: %[3]dpx; height: %[4]dpx; transform-origin: 0 0; transform: %[5]s; }
</style>
</head>
<body><img src="data:image/png;base64,%[6]s" alt="dashboard"></body>
</html>`, pageW, pageH, bmp.Width, bmp.Height, transform, base64.StdEncoding.EncodeToString(bmp.PNG))
}
