package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Document is a simple report: a title followed by labelled sections.
type Document struct {
	Title    string
	Sections []Section
	Footer   string
}

type Section struct {
	Heading string
	Lines   []Line
}

type Line struct {
	Label string
	Value string
	Bold  bool
}

func PDF(baseName string, doc Document) (File, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.SetFillColor(230, 236, 245)
			pdf.CellFormat(0, 8, section.Heading, "", 1, "L", true, 0, "")
		}
		for _, line := range section.Lines {
			style := ""
			if line.Bold {
				style = "B"
			}
			pdf.SetFont("Arial", style, 11)
			pdf.CellFormat(90, 7, line.Label, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, line.Value, "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	if doc.Footer != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, doc.Footer, "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return File{}, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return File{}, fmt.Errorf("write pdf: %w", err)
	}
	return newFile(baseName, FormatPDF, buf.Bytes()), nil
}
