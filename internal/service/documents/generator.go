package documents

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// Generator assembles documents with the clinic header and a generation
// timestamp, renders them and stages print previews.
type Generator struct {
	renderer *Renderer
	printer  *PrintService
	previews *PreviewStore
	clinic   ClinicHeader
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewGenerator wires a generator. printer and previews may be nil when the
// service only renders and exports.
func NewGenerator(renderer *Renderer, printer *PrintService, previews *PreviewStore, clinic ClinicHeader, loc *time.Location, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Generator{
		renderer: renderer,
		printer:  printer,
		previews: previews,
		clinic:   clinic,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Report builds the table of report type t from an already filtered set.
func (g *Generator) Report(t models.ReportType, set models.ReportSet, filters models.ReportFilters) (*Document, error) {
	doc, err := BuildReport(t, set)
	if err != nil {
		return nil, err
	}
	doc.Subtitle = filters.Subtitle()
	doc.Clinic = g.clinic
	doc.GeneratedAt = g.now().In(g.loc)
	return doc, nil
}

// RenderReport returns the printable HTML of doc.
func (g *Generator) RenderReport(doc *Document) (string, error) {
	return g.renderer.RenderReport(doc)
}

// RenderInvoice stamps inv with the clinic header and returns its HTML.
func (g *Generator) RenderInvoice(inv *Invoice) (string, error) {
	if inv == nil {
		return "", NewRenderError(ErrCodeEmptyDocument, "invoice is nil", nil)
	}
	inv.Clinic = g.clinic
	inv.GeneratedAt = g.now().In(g.loc)
	return g.renderer.RenderInvoice(inv)
}

// Print sends html straight to the print service.
func (g *Generator) Print(ctx context.Context, title, html string) (*PrintResult, error) {
	if g.printer == nil {
		return nil, ErrPopupBlocked
	}
	return g.printer.Print(ctx, title, html)
}

// Preview renders doc and stages it in a new preview whose confirm prints
// the rendered HTML. It returns the preview id and its first snapshot.
func (g *Generator) Preview(doc *Document) (string, PreviewSnapshot, error) {
	html, err := g.RenderReport(doc)
	if err != nil {
		return "", PreviewSnapshot{}, err
	}
	return g.stage(doc.Title, html, doc.RecordCount)
}

// PreviewInvoice is Preview for invoices and receipts.
func (g *Generator) PreviewInvoice(inv *Invoice) (string, PreviewSnapshot, error) {
	html, err := g.RenderInvoice(inv)
	if err != nil {
		return "", PreviewSnapshot{}, err
	}
	return g.stage(inv.Title, html, len(inv.Items))
}

func (g *Generator) stage(title, html string, records int) (string, PreviewSnapshot, error) {
	if g.previews == nil {
		return "", PreviewSnapshot{}, ErrPreviewNotFound
	}
	id, p := g.previews.Open(PreviewData{
		Title:       title,
		Content:     html,
		RecordCount: records,
		OnConfirm: func(ctx context.Context) (*PrintResult, error) {
			return g.Print(ctx, title, html)
		},
	})
	g.logger.Debug("preview staged", zap.String("preview_id", id), zap.String("title", title), zap.Int("records", records))
	return id, p.Snapshot(), nil
}

// Previews exposes the preview store backing the generator.
func (g *Generator) Previews() *PreviewStore {
	return g.previews
}
