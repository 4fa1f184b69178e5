package receipt

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/safar/gymwear-api/internal/models"
)

var receiptsGenerated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "receipts_generated_total",
		Help: "Receipt PDFs rendered, by result",
	},
	[]string{"result"},
)

type rgb struct{ r, g, b int }

var (
	headerFill = rgb{79, 70, 229}
	white      = rgb{255, 255, 255}
	black      = rgb{0, 0, 0}
	gray       = rgb{128, 128, 128}
)

const (
	margin     = 15.0
	lineHeight = 7.0
	headerRowH = 10.0
	itemRowH   = 9.0
	emptyRowH  = 12.0
)

// GenerationError reports a failure while rendering a receipt. No partial
// document accompanies it.
type GenerationError struct {
	OrderID int64
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate receipt for order %d: %v", e.OrderID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type Generator struct {
	shop     string
	pageSize string
	compress bool
	logger   *slog.Logger
}

type Option func(*Generator)

// WithCompression toggles content stream compression. Uncompressed output
// keeps page text greppable.
func WithCompression(on bool) Option {
	return func(g *Generator) { g.compress = on }
}

// WithPageSize sets the fpdf page size name ("A4", "Letter", ...).
func WithPageSize(size string) Option {
	return func(g *Generator) { g.pageSize = size }
}

func NewGenerator(shop string, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		shop:     shop,
		pageSize: "A4",
		compress: true,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the receipt for order. It does not modify order and is
// safe for concurrent use.
func (g *Generator) Generate(order *models.Order) ([]byte, error) {
	r, err := Build(order, g.shop)
	if err != nil {
		receiptsGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	out, err := g.render(r)
	if err != nil {
		receiptsGenerated.WithLabelValues("error").Inc()
		g.logger.Error("receipt generation failed",
			slog.Int64("order_id", r.OrderID),
			slog.String("error", err.Error()),
		)
		return nil, &GenerationError{OrderID: r.OrderID, Err: err}
	}

	receiptsGenerated.WithLabelValues("ok").Inc()
	return out, nil
}

func (g *Generator) render(r *Receipt) ([]byte, error) {
	pdf := fpdf.New("P", "mm", g.pageSize, "")
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	stamp := r.Date
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(g.compress)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(r.Title), false)
	pdf.SetCreator(tr(g.shop), false)
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin
	colW := contentW / 3

	pdf.SetFont("Helvetica", "B", 20)
	setText(pdf, black)
	pdf.CellFormat(contentW, 12, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	for _, line := range r.Summary {
		style := ""
		if line.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 12)
		pdf.CellFormat(contentW, lineHeight, tr(line.Text), "", 1, "L", false, 0, "")
	}
	pdf.Ln(lineHeight + 3)

	pdf.SetFont("Helvetica", "B", 11)
	setText(pdf, white)
	pdf.SetFillColor(headerFill.r, headerFill.g, headerFill.b)
	for i, h := range r.Header {
		ln := 0
		if i == len(r.Header)-1 {
			ln = 1
		}
		pdf.CellFormat(colW, headerRowH, tr(h), "1", ln, "L", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 12)
	setText(pdf, black)
	if r.Empty {
		pdf.CellFormat(contentW, emptyRowH, tr(r.EmptyText), "1", 1, "C", false, 0, "")
	}
	for _, row := range r.Rows {
		pdf.CellFormat(colW, itemRowH, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, itemRowH, tr(row[1]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, itemRowH, tr(row[2]), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(lineHeight)
	pdf.SetFont("Helvetica", "I", 10)
	setText(pdf, gray)
	pdf.CellFormat(contentW, lineHeight, tr(r.Footer), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
