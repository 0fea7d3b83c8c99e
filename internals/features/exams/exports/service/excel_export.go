// file: internals/features/exams/exports/service/excel_export.go
package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetExams   = "Exámenes"
	SheetSummary = "Resumen"
)

var examHeaders = []string{"Periodo", "Calendario", "Fecha", "Día de semana", "Asignatura", "Grupo", "Pesada"}

// WriteExcel writes the "Exámenes" and "Resumen" sheets as xlsx.
func WriteExcel(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes "Exámenes"
	if err := f.SetSheetName(f.GetSheetName(0), SheetExams); err != nil {
		return err
	}
	if err := writeRow(f, SheetExams, 1, toAny(examHeaders)); err != nil {
		return err
	}
	for i, r := range rep.Rows {
		if err := writeRow(f, SheetExams, i+2, []any{
			rep.PeriodLabel,
			rep.CalendarName,
			r.Date.String(),
			r.Weekday,
			r.SubjectName,
			r.SemesterGroup,
			r.HeavyLabel(),
		}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	if err := writeRow(f, SheetSummary, 1, []any{"Fecha", "Cantidad"}); err != nil {
		return err
	}
	for i, s := range rep.Summary {
		if err := writeRow(f, SheetSummary, i+2, []any{s.Date.String(), s.Count}); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetExams, "A", "B", 16)
	_ = f.SetColWidth(SheetExams, "C", "D", 14)
	_ = f.SetColWidth(SheetExams, "E", "E", 36)
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
