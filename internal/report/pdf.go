package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/FunctionFreak/link-scraper/internal/aggregate"
)

// PDFWriter renders the report as a new timestamped PDF file.
type PDFWriter struct {
	Dir string
}

func (w PDFWriter) Write(rep aggregate.Report) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Search results", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+rep.GeneratedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, res := range orderedResults(rep) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s (%d links)", res.Engine, res.Count()), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for i, l := range res.Links {
			title := l.Title
			if title == "" {
				title = "(untitled)"
			}
			pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, title), "", "L", false)
			pdf.SetTextColor(0, 0, 200)
			pdf.WriteLinkString(5, l.URL, l.URL)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(5)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 4, l.Domain, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d duplicate Bing links dropped", rep.DuplicatesDropped), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total: %d links", rep.TotalLinks), "", 1, "L", false, 0, "")

	return writeUnique(w.Dir, timestampBase(rep.GeneratedAt), ".pdf", pdf.Output)
}
