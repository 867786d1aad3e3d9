package printing

import (
	"context"
	"html"

	appprinting "github.com/tradedocs/backend/internal/application/printing"
	"github.com/tradedocs/backend/internal/domain/printing"
	"go.uber.org/zap"
)

// DocumentRenderer lays out document views with the template engine and
// prints them through a PDFRenderer
type DocumentRenderer struct {
	engine *TemplateEngine
	pdf    PDFRenderer
	logger *zap.Logger
}

// NewDocumentRenderer creates a DocumentRenderer
func NewDocumentRenderer(engine *TemplateEngine, pdf PDFRenderer, logger *zap.Logger) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{engine: engine, pdf: pdf, logger: logger}
}

// Render produces the PDF bytes of one document
func (r *DocumentRenderer) Render(ctx context.Context, view *appprinting.DocumentView) ([]byte, error) {
	content, err := r.engine.Render(view)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:        content,
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DocumentMargins(),
		Title:       view.Title + " " + view.Number,
		FooterHTML:  footerTemplate(),
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("document printed",
		zap.String("document_type", string(view.Type)),
		zap.String("number", view.Number),
		zap.Int("pages", result.PageCount))
	return result.PDFData, nil
}

// footerTemplate is the Chrome page footer: fixed text plus page numbering
func footerTemplate() string {
	return `<div style="font-size:7pt;width:100%;text-align:center;color:#444;">` +
		html.EscapeString(FooterText) +
		` &nbsp; Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
}

var _ appprinting.DocumentRenderer = (*DocumentRenderer)(nil)
