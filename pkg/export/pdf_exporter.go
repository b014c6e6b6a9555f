package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 297.0
	marginSide   = 10.0
	headerHeight = 8.0
	lineHeight   = 4.5
)

// PDFExporter renders documents into landscape tabular PDFs.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the document title and one table per section.
// Long cell values wrap inside their column.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := textTranslator(pdf)
	pdf.SetMargins(marginSide, 12, marginSide)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	for i, section := range doc.Sections {
		if len(section.Headers) == 0 {
			return nil, fmt.Errorf("pdf section %d requires at least one header", i)
		}
		if i > 0 {
			pdf.Ln(6)
		}
		renderTable(pdf, tr, section)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// textTranslator maps UTF-8 text onto the cp1252 encoding of the core fonts.
// Runes outside cp1252 cannot be drawn with them.
func textTranslator(pdf *gofpdf.Fpdf) func(string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, section Dataset) {
	if section.Title != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, tr(section.Title), "", 1, "L", false, 0, "")
	}

	colWidth := (pageWidth - 2*marginSide) / float64(len(section.Headers))
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range section.Headers {
		pdf.CellFormat(colWidth, headerHeight, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range section.Rows {
		cells := make([]string, len(section.Headers))
		for i, value := range alignRow(row, len(section.Headers)) {
			cells[i] = tr(value)
		}
		lines := 1
		for _, value := range cells {
			if n := len(pdf.SplitLines([]byte(value), colWidth-2)); n > lines {
				lines = n
			}
		}
		height := float64(lines) * lineHeight

		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i, value := range cells {
			pdf.Rect(x+float64(i)*colWidth, y, colWidth, height, "D")
			pdf.SetXY(x+float64(i)*colWidth, y)
			pdf.MultiCell(colWidth, lineHeight, value, "", "L", false)
		}
		pdf.SetXY(x, y+height)
	}
}
