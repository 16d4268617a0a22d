package services

import (
	"bytes"
	"fmt"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// ReportRow is one line of an order listing.
type ReportRow struct {
	Reference string
	Party     string
	Date      string
	Total     float64
	Paid      float64
	Status    string
}

// Due is what remains to be paid on the row.
func (r ReportRow) Due() float64 {
	if d := r.Total - r.Paid; d > 0 {
		return d
	}
	return 0
}

// OrderReport is a printable order listing.
type OrderReport struct {
	Kind        string
	Title       string
	GeneratedAt time.Time
	Rows        []ReportRow
}

// Totals sums the total, paid and due columns.
func (r OrderReport) Totals() (total, paid, due float64) {
	for _, row := range r.Rows {
		total += row.Total
		paid += row.Paid
		due += row.Due()
	}
	return total, paid, due
}

// DocsService renders order listings to PDF.
type DocsService struct {
	Logger    *zap.Logger
	RequestID string
}

var reportColumns = []struct {
	title string
	width float64
	align string
}{
	{"Ref", 22, "L"},
	{"Client / Optic", 62, "L"},
	{"Date", 24, "L"},
	{"Total", 28, "R"},
	{"Paid", 28, "R"},
	{"Status", 26, "L"},
}

// RenderOrderReport lays the report out on A4 pages, repeating the header
// row on each page.
func (s DocsService) RenderOrderReport(r OrderReport) (models.Document, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = utils.NowUTC()
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range reportColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
		}
		pdf.Ln(-1)
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range r.Rows {
		cells := []string{
			row.Reference,
			truncate(row.Party, 38),
			row.Date,
			utils.FormatDirham(row.Total),
			utils.FormatDirham(row.Paid),
			utils.Fallback(row.Status, "-"),
		}
		for i, col := range reportColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	total, paid, due := r.Totals()
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, r.Title)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", utils.FormatDateTime(r.GeneratedAt)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Orders: %d", len(r.Rows)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total: "+utils.FormatDirham(total))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Paid: "+utils.FormatDirham(paid))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, "Due: "+utils.FormatDirham(due))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return models.Document{}, err
	}

	utils.LogEvent(s.Logger, s.RequestID, "docs", "render_report",
		fmt.Sprintf("kind=%s rows=%d", r.Kind, len(r.Rows)))

	filename := fmt.Sprintf("REPORT_%s_%s.pdf",
		utils.SafeFilenamePart(r.Kind), r.GeneratedAt.Format("20060102_1504"))
	return models.Document{Filename: filename, ContentType: "application/pdf", Data: buf.Bytes()}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
