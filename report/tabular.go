package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteCSV emits the header and rows of doc, followed by the summary block.
func WriteCSV(w io.Writer, doc Document) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(doc.Columns); err != nil {
		return err
	}
	for _, row := range doc.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	if len(doc.Summary) > 0 {
		if err := writer.Write(nil); err != nil {
			return err
		}
		for _, f := range doc.Summary {
			if err := writer.Write([]string{f.Label, f.Value}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes doc as a workbook with a data sheet and, when present, a
// summary sheet.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const dataSheet = "Report"
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("report: xlsx sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: xlsx style: %w", err)
	}

	for col, title := range doc.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(dataSheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(dataSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for r, row := range doc.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(dataSheet, cell, value); err != nil {
				return err
			}
		}
	}

	if len(doc.Summary) > 0 {
		const summarySheet = "Summary"
		if _, err := f.NewSheet(summarySheet); err != nil {
			return fmt.Errorf("report: xlsx summary sheet: %w", err)
		}
		for i, field := range doc.Summary {
			if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), field.Label); err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), field.Value); err != nil {
				return err
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}
