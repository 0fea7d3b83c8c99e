// file: internals/features/exams/exports/service/pdf_export.go
package service

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Fecha", 32},
	{"Día", 32},
	{"Asignaturas", 116},
}

const pdfLineHeight = 6.0

// WritePDF renders an A4 table: one line per exam day.
func WritePDF(w io.Writer, rep *Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(ReportTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s - %s", rep.CalendarName, rep.PeriodLabel)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Rango: %s a %s", rep.StartDate, rep.EndDate)), "", 1, "L", false, 0, "")
	if rep.VersionNumber != nil {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Versión %d", *rep.VersionNumber)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(138, 30, 17)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(128, 128, 128)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, d := range rep.Days {
		label := tr(d.Label())
		lines := pdf.SplitLines([]byte(label), pdfColumns[2].width-2)
		h := pdfLineHeight * float64(max(len(lines), 1))

		if pdf.GetY()+h > pageH-bottom {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		pdf.CellFormat(pdfColumns[0].width, h, d.Date.String(), "1", 0, "LT", false, 0, "")
		pdf.CellFormat(pdfColumns[1].width, h, tr(d.Weekday), "1", 0, "LT", false, 0, "")
		pdf.MultiCell(pdfColumns[2].width, pdfLineHeight, label, "1", "L", false)
		pdf.SetXY(x, y+h)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
