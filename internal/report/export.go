package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// projectRows flattens the report's projects into export rows:
// project id, lead name, status, total price, created date.
func (r *Report) projectRows() [][]string {
	rows := make([][]string, 0, len(r.Projects))
	for _, p := range r.Projects {
		name := p.Lead.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			name,
			p.Status,
			fmt.Sprintf("%.2f", p.TotalPrice),
			p.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows
}

var exportHeader = []string{"Project ID", "Customer Name", "Status", "Total Price", "Created At"}

// WriteCSV streams the project report as CSV.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range r.projectRows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePDF renders the project report as a simple tabular PDF.
func (r *Report) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Project Report", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Project Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	sub := fmt.Sprintf("%s - %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{20, 60, 30, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range exportHeader {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range r.projectRows() {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
