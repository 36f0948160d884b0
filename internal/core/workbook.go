package core

// workbook.go reads uploaded spreadsheets into Tables.
//
// Three input formats are supported, dispatched on the file extension:
//
//   - .xlsx  zip-based workbooks, read via excelize with raw cell values
//            so date cells surface as their serial numbers
//   - .xls   legacy binary workbooks, read via extrame/xls
//   - .csv   delimited text, read through the BOM-skipping and UTF-8
//            sanitizing stream wrappers
//
// Only the first sheet of a workbook is read. The first row is the header
// row; ragged data rows are padded to the header width.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFileType is returned for extensions other than
// .xlsx/.xls/.csv.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// SupportedExtensions lists the accepted upload extensions.
var SupportedExtensions = []string{".xlsx", ".xls", ".csv"}

// SupportedFileType reports whether the file name carries an accepted
// spreadsheet extension.
func SupportedFileType(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ReadTable parses one uploaded file into a Table.
func ReadTable(fileName string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(fileName))
	}
}

// readXLSX reads the first sheet of a zip-based workbook. RawCellValue
// keeps date cells as serial numbers and sidesteps locale-dependent
// display formatting.
func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

// readXLS reads the first sheet of a legacy binary workbook.
func readXLS(data []byte) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-16")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	// Drop trailing all-empty rows the binary format pads with.
	for len(rows) > 0 && rowIsEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

// readCSV reads delimited text through the streaming wrappers so BOMs and
// invalid UTF-8 never reach the parser. Ragged records are tolerated and
// padded by NewTable.
func readCSV(data []byte) (*Table, error) {
	r := csv.NewReader(WrapForStreaming(bytes.NewReader(data), int64(len(data))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(records[0], records[1:]), nil
}

func rowIsEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
