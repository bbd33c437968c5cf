package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfFamily      = "report"
	pdfCoreFamily  = "Arial"
	pdfMargin      = 15.0
	pdfRowHeight   = 7.0
	pdfHeaderColor = 0x28916C
)

// PDFWriter renders tables as landscape A4 documents. Without a TrueType font
// the core Arial font is used, which has no Vietnamese glyphs beyond Latin-1.
type PDFWriter struct {
	fontPath     string
	fontBoldPath string
}

// NewPDFWriter creates a PDFWriter. fontPath and fontBoldPath point at UTF-8
// TrueType fonts; empty paths select the core font.
func NewPDFWriter(fontPath, fontBoldPath string) *PDFWriter {
	if fontBoldPath == "" {
		fontBoldPath = fontPath
	}
	return &PDFWriter{fontPath: fontPath, fontBoldPath: fontBoldPath}
}

// Write renders t to w
func (p *PDFWriter) Write(w io.Writer, t *Table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	family := pdfCoreFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if p.fontPath != "" {
		family = pdfFamily
		pdf.AddUTF8Font(family, "", p.fontPath)
		pdf.AddUTF8Font(family, "B", p.fontBoldPath)
		tr = func(s string) string { return s }
	}

	pageWidth, _ := pdf.GetPageSize()
	widths := scaleWidths(t.columnWidths(6, 40), pageWidth-2*pdfMargin)

	header := func() {
		pdf.SetFont(family, "B", 10)
		pdf.SetFillColor(pdfHeaderColor>>16, pdfHeaderColor>>8&0xFF, pdfHeaderColor&0xFF)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight+1, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(family, "", 9)
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	if t.Subtitle != "" {
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 6, tr(t.Subtitle), "", 1, "C", false, 0, "")
	}
	if !t.GeneratedAt.IsZero() {
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, tr("Ngày lập: "+t.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	header()
	_, pageHeight := pdf.GetPageSize()
	for n, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if t.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont(family, "B", 10)
		pdf.MultiCell(0, 6, tr(t.Footer), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// scaleWidths converts character widths to millimetres filling total
func scaleWidths(chars []int, total float64) []float64 {
	sum := 0
	for _, c := range chars {
		sum += c
	}
	out := make([]float64, len(chars))
	if sum == 0 {
		return out
	}
	for i, c := range chars {
		out[i] = total * float64(c) / float64(sum)
	}
	return out
}
