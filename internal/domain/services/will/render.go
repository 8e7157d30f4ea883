package will

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"legal-literacy-portal/internal/domain/models"
)

// RenderText writes the layout as plain text. A new page is marked with a form feed.
func RenderText(sections []models.WillSection) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			if s.NewPage {
				sb.WriteString("\f\n")
			} else {
				sb.WriteString("\n")
			}
		}
		sb.WriteString(s.Heading + "\n\n")
		for _, p := range s.Paragraphs {
			sb.WriteString(p + "\n")
		}
	}
	return sb.String()
}

// RenderPDF writes the layout as an A4 PDF with a page number footer
func RenderPDF(w io.Writer, sections []models.WillSection) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Last Will and Testament", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	for i, s := range sections {
		if s.NewPage && i > 0 {
			pdf.AddPage()
		}
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 10, tr(s.Heading), "", "C", false)
			pdf.SetFont("Helvetica", "", 12)
			for _, p := range s.Paragraphs {
				pdf.MultiCell(0, 7, tr(p), "", "C", false)
			}
			pdf.Ln(6)
			continue
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(s.Heading), "", "L", false)
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range s.Paragraphs {
			pdf.MultiCell(0, 6, tr(p), "", "J", false)
			pdf.Ln(1)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render will pdf: %w", err)
	}
	return nil
}
