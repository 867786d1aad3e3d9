package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/tradedocs/backend/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0
	defaultConcurrency   = 4
	footerMinMarginMM    = 15
	mmPerInch            = 25.4
)

type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL points at the DevTools websocket of a running Chrome.
	// Empty starts a local headless browser.
	RemoteURL string
	ExecPath  string
	// MaxConcurrent bounds parallel renders, each holding one browser tab.
	MaxConcurrent int
	// NoSandbox is needed when Chrome runs as root inside a container.
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML through headless Chrome. One browser process
// is shared; every render gets its own tab.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
	slots       chan struct{}
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer fills config defaults. Chrome itself starts on the
// first render.
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	cfg := ChromedpConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = defaultChromeTimeout
	}
	if cfg.Scale == 0 {
		cfg.Scale = defaultScale
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: &cfg,
		logger: cfg.Logger,
		slots:  make(chan struct{}, cfg.MaxConcurrent),
	}
	r.allocCtx, r.allocCancel = newAllocator(&cfg)
	return r
}

func newAllocator(cfg *ChromedpConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	started := time.Now()
	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRenderTimeout, "no browser tab became free", ctx.Err())
	}

	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	// tab derives from the allocator, not ctx; tie its lifetime to ctx
	defer context.AfterFunc(ctx, closeTab)()

	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		loadDocument(wrapDocument(req)),
		printPDF(pageSetupFor(req, r.config.Scale), &pdf),
	)
	if err != nil {
		return nil, r.runError(ctx, timeout, err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome returned an empty PDF", nil)
	}

	result := &RenderResult{PDFData: pdf, PageCount: countPages(pdf), RenderDuration: time.Since(started)}
	r.logger.Debug("Rendered PDF",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// Close stops the local browser, or detaches from a remote one.
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func normalizeRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if req.PaperSize == "" {
		req.PaperSize = printing.PaperSizeA4
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "unsupported paper size "+string(req.PaperSize), nil)
	}
	if err := req.Margins.Validate(); err != nil {
		return NewRenderError(ErrCodeInvalidMargins, "invalid margins", err)
	}
	return nil
}

func (r *ChromedpRenderer) runError(ctx context.Context, timeout time.Duration, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("rendering exceeded %v", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewRenderError(ErrCodeRenderTimeout, "rendering cancelled", err)
	}
	r.logger.Error("Chrome failed to print", zap.Error(err))
	return NewRenderError(ErrCodeRenderFailed, "chrome failed to print", err)
}

func loadDocument(content string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, content).Do(ctx)
	})
}

func printPDF(s pageSetup, out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(s.width).
			WithPaperHeight(s.height).
			WithMarginTop(s.top).
			WithMarginRight(s.right).
			WithMarginBottom(s.bottom).
			WithMarginLeft(s.left).
			WithScale(s.scale).
			WithLandscape(s.landscape).
			WithDisplayHeaderFooter(s.footer != "").
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(s.footer).
			Do(ctx)
		*out = data
		return err
	})
}

// pageSetup is the PrintToPDF geometry; lengths are in inches.
type pageSetup struct {
	width, height            float64
	top, right, bottom, left float64
	scale                    float64
	landscape                bool
	footer                   string
}

func pageSetupFor(req *RenderRequest, scale float64) pageSetup {
	w, h := req.PaperSize.Dimensions()
	m := req.Margins
	s := pageSetup{
		width:     inches(w),
		height:    inches(h),
		top:       inches(m.Top),
		right:     inches(m.Right),
		bottom:    inches(m.Bottom),
		left:      inches(m.Left),
		scale:     scale,
		landscape: req.Orientation == printing.OrientationLandscape,
		footer:    req.FooterHTML,
	}
	// Chrome draws the footer inside the bottom margin
	if s.footer != "" {
		s.bottom = max(s.bottom, inches(footerMinMarginMM))
	}
	return s
}

func inches(mm int) float64 {
	return float64(mm) / mmPerInch
}

// wrapDocument turns a body fragment into a complete UTF-8 page. Complete
// documents pass through unchanged.
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// countPages counts /Type /Page objects minus the /Pages tree nodes.
func countPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(n, 1)
}
