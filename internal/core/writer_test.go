package core

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/opstools/qrcleaner/internal/schema"
	"github.com/xuri/excelize/v2"
)

// ----------------------------------------------------------------------------
// Workbook Writer Tests
// ----------------------------------------------------------------------------

func TestWriteTable_RoundTrip(t *testing.T) {
	table := NewTable(
		[]string{"Mobile No", "DOB", "Account Type"},
		[][]string{
			{"9876543210", "01-11-2023", "Savings"},
			{"9123456780", "15-11-2023", "Current"},
		},
	)
	table.MarkTextColumn("DOB")

	var buf bytes.Buffer
	if err := WriteTable(table, SheetNameSingle, &buf); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Cleaned" {
		t.Errorf("sheet name = %q, want %q", got, "Cleaned")
	}

	rows, err := f.GetRows("Cleaned")
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}

	want := [][]string{
		{"Mobile No", "DOB", "Account Type"},
		{"9876543210", "01-11-2023", "Savings"},
		{"9123456780", "15-11-2023", "Current"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestWriteTable_DateCellsStayText(t *testing.T) {
	table := NewTable(
		[]string{"DOB", "Note"},
		[][]string{
			{"01-11-2023", "x"},
		},
	)
	table.MarkTextColumn("DOB")

	var buf bytes.Buffer
	if err := WriteTable(table, SheetNameSingle, &buf); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	// The value reads back exactly as written, not as a coerced date
	got, err := f.GetCellValue("Cleaned", "A2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "01-11-2023" {
		t.Errorf("A2 = %q, want %q", got, "01-11-2023")
	}

	// And the column carries the text number format
	styleID, err := f.GetColStyle("Cleaned", "A")
	if err != nil {
		t.Fatalf("GetColStyle error: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle error: %v", err)
	}
	if style.NumFmt != 49 {
		t.Errorf("column A NumFmt = %d, want 49 (text)", style.NumFmt)
	}
}

func TestWriteTable_AttachesDropdowns(t *testing.T) {
	table := NewTable(
		[]string{"Account Type", "Account Sub Type"},
		[][]string{
			{"Savings", "Regular"},
			{"", ""},
		},
	)

	var buf bytes.Buffer
	if err := WriteTable(table, SheetNameMerged, &buf); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	dvs, err := f.GetDataValidations("Cleaned_Merged")
	if err != nil {
		t.Fatalf("GetDataValidations error: %v", err)
	}
	if len(dvs) != 2 {
		t.Fatalf("got %d data validations, want 2", len(dvs))
	}

	joined := ""
	for _, dv := range dvs {
		joined += dv.Formula1 + " " + dv.Sqref + " "
	}
	for _, opt := range []string{"Savings", "Fixed Deposit", "Regular", "Overdraft"} {
		if !strings.Contains(joined, opt) {
			t.Errorf("dropdown options missing %q in %q", opt, joined)
		}
	}

	// Ranges cover the data rows only, not the header
	if !strings.Contains(joined, "A2:A3") {
		t.Errorf("dropdown range A2:A3 missing in %q", joined)
	}
	if !strings.Contains(joined, "B2:B3") {
		t.Errorf("dropdown range B2:B3 missing in %q", joined)
	}
}

func TestWriteTable_NoRowsNoDropdowns(t *testing.T) {
	table := NewTable([]string{"Account Type"}, nil)

	var buf bytes.Buffer
	if err := WriteTable(table, SheetNameSingle, &buf); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	dvs, err := f.GetDataValidations("Cleaned")
	if err != nil {
		t.Fatalf("GetDataValidations error: %v", err)
	}
	if len(dvs) != 0 {
		t.Errorf("got %d data validations on empty sheet, want 0", len(dvs))
	}
}

func TestWriteTable_ReadBackThroughReader(t *testing.T) {
	table := NewTable(
		[]string{"Mobile No", "Aadhar No"},
		[][]string{
			{"9876543210", "123456789012"},
		},
	)
	table.MarkTextColumn("Aadhar No")

	var buf bytes.Buffer
	if err := WriteTable(table, SheetNameSingle, &buf); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	got, err := ReadTable("out.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	if !reflect.DeepEqual(got.Headers, table.Headers) {
		t.Errorf("Headers = %v, want %v", got.Headers, table.Headers)
	}
	if !reflect.DeepEqual(got.Rows, table.Rows) {
		t.Errorf("Rows = %v, want %v", got.Rows, table.Rows)
	}
}

// ----------------------------------------------------------------------------
// Template Tests
// ----------------------------------------------------------------------------

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Template" {
		t.Errorf("sheet name = %q, want %q", got, "Template")
	}

	rows, err := f.GetRows("Template")
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want header only", len(rows))
	}
	if !reflect.DeepEqual(rows[0], schema.TemplateColumns) {
		t.Errorf("header = %v, want %v", rows[0], schema.TemplateColumns)
	}
}

// ----------------------------------------------------------------------------
// Change Log CSV Tests
// ----------------------------------------------------------------------------

func TestWriteLogCSV(t *testing.T) {
	logs := []string{
		"[branch_a.xlsx] Removed 2 rows with blank Mobile No",
		"(Merged) Removed 1 duplicate row(s) by Mobile No (kept first occurrence)",
	}

	var buf bytes.Buffer
	if err := WriteLogCSV(logs, &buf); err != nil {
		t.Fatalf("WriteLogCSV error: %v", err)
	}

	got := buf.String()
	want := "source_file,message\n" +
		"branch_a.xlsx,Removed 2 rows with blank Mobile No\n" +
		",(Merged) Removed 1 duplicate row(s) by Mobile No (kept first occurrence)\n"
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestWriteLogCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLogCSV(nil, &buf); err != nil {
		t.Fatalf("WriteLogCSV error: %v", err)
	}
	if got := buf.String(); got != "source_file,message\n" {
		t.Errorf("csv = %q, want header only", got)
	}
}
