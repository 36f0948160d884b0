package core

// writer.go renders a cleaned Table to an .xlsx workbook.
//
// Every cell is written as a string so the sheet mirrors the table
// verbatim. Columns marked for text output additionally get the "@" number
// format, which keeps their values textual if a user edits the file, and
// the two account-classification columns get their dropdown lists attached
// when present.

import (
	"fmt"
	"io"

	"github.com/opstools/qrcleaner/internal/schema"
	"github.com/xuri/excelize/v2"
)

// Sheet and download names for the two job modes.
const (
	SheetNameSingle  = "Cleaned"
	SheetNameMerged  = "Cleaned_Merged"
	OutputNameSingle = "Cleaned_Single.xlsx"
	OutputNameMerged = "Cleaned_Merged.xlsx"
)

// Column width bounds for the output sheet, in character units.
const (
	minColWidth = 10
	maxColWidth = 60
)

// textNumFmt is the built-in "@" (text) number format.
const textNumFmt = 49

// WriteTable serializes the table to w as a single-sheet workbook.
func WriteTable(t *Table, sheetName string, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := applyTextColumns(f, sheetName, t); err != nil {
		return err
	}
	if err := applyColumnWidths(f, sheetName, t); err != nil {
		return err
	}
	if err := applyDropLists(f, sheetName, t); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// applyTextColumns sets the "@" number format on every marked column.
func applyTextColumns(f *excelize.File, sheetName string, t *Table) error {
	cols := t.TextColumns()
	if len(cols) == 0 {
		return nil
	}

	styleID, err := f.NewStyle(&excelize.Style{NumFmt: textNumFmt})
	if err != nil {
		return fmt.Errorf("create text style: %w", err)
	}

	for _, name := range cols {
		idx, ok := t.Col(name)
		if !ok {
			continue
		}
		col, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		if err := f.SetColStyle(sheetName, col, styleID); err != nil {
			return fmt.Errorf("style column %s: %w", col, err)
		}
	}
	return nil
}

// applyColumnWidths sizes each column to its longest value, clamped.
func applyColumnWidths(f *excelize.File, sheetName string, t *Table) error {
	for i, h := range t.Headers {
		width := len([]rune(h))
		for _, row := range t.Rows {
			if l := len([]rune(row[i])); l > width {
				width = l
			}
		}
		w := float64(width + 2)
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return fmt.Errorf("size column %s: %w", col, err)
		}
	}
	return nil
}

// applyDropLists attaches the constrained-choice dropdowns to the account
// classification columns. The lists are advisory: blanks stay allowed and
// values already present are not revalidated.
func applyDropLists(f *excelize.File, sheetName string, t *Table) error {
	if t.RowCount() == 0 {
		return nil
	}

	for _, dl := range schema.DropLists {
		idx, ok := t.Col(dl.Column)
		if !ok {
			continue
		}

		first, err := excelize.CoordinatesToCellName(idx+1, 2)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(idx+1, t.RowCount()+1)
		if err != nil {
			return err
		}

		dv := excelize.NewDataValidation(true)
		dv.Sqref = first + ":" + last
		if err := dv.SetDropList(dl.Options); err != nil {
			return fmt.Errorf("dropdown for %s: %w", dl.Column, err)
		}
		if err := f.AddDataValidation(sheetName, dv); err != nil {
			return fmt.Errorf("attach dropdown for %s: %w", dl.Column, err)
		}
	}
	return nil
}
