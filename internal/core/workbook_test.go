package core

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ----------------------------------------------------------------------------
// File Type Tests
// ----------------------------------------------------------------------------

func TestSupportedFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     bool
	}{
		{
			name:     "xlsx",
			fileName: "records.xlsx",
			want:     true,
		},
		{
			name:     "uppercase extension",
			fileName: "RECORDS.XLSX",
			want:     true,
		},
		{
			name:     "legacy xls",
			fileName: "records.xls",
			want:     true,
		},
		{
			name:     "csv",
			fileName: "records.csv",
			want:     true,
		},
		{
			name:     "pdf rejected",
			fileName: "records.pdf",
			want:     false,
		},
		{
			name:     "no extension rejected",
			fileName: "records",
			want:     false,
		},
		{
			name:     "xlsx in the middle only",
			fileName: "records.xlsx.exe",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SupportedFileType(tt.fileName)
			if got != tt.want {
				t.Errorf("SupportedFileType(%q) = %v, want %v", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := ReadTable("records.pdf", []byte("%PDF"))
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("ReadTable(.pdf) error = %v, want ErrUnsupportedFileType", err)
	}
}

// ----------------------------------------------------------------------------
// CSV Reading Tests
// ----------------------------------------------------------------------------

func TestReadTable_CSV(t *testing.T) {
	data := []byte("Mobile No,First Name\n9876543210,Asha\n9123456780,Ravi\n")

	table, err := ReadTable("records.csv", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	wantHeaders := []string{"Mobile No", "First Name"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", table.Headers, wantHeaders)
	}

	wantRows := [][]string{
		{"9876543210", "Asha"},
		{"9123456780", "Ravi"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %v, want %v", table.Rows, wantRows)
	}
}

func TestReadTable_CSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Mobile No,First Name\n9876543210,Asha\n")...)

	table, err := ReadTable("records.csv", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	if table.Headers[0] != "Mobile No" {
		t.Errorf("Headers[0] = %q, want %q (BOM should be stripped)", table.Headers[0], "Mobile No")
	}
}

func TestReadTable_CSVRaggedRows(t *testing.T) {
	data := []byte("A,B,C\n1\n1,2,3,4\n")

	table, err := ReadTable("records.csv", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	wantRows := [][]string{
		{"1", "", ""},
		{"1", "2", "3"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %v, want %v", table.Rows, wantRows)
	}
}

func TestReadTable_CSVInvalidUTF8(t *testing.T) {
	data := []byte("First Name\nJos\xE9\n")

	table, err := ReadTable("records.csv", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	if got := table.Rows[0][0]; got != "Jos?" {
		t.Errorf("cell = %q, want %q (invalid byte replaced)", got, "Jos?")
	}
}

func TestReadTable_CSVEmpty(t *testing.T) {
	table, err := ReadTable("records.csv", []byte{})
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}
	if len(table.Headers) != 0 || table.RowCount() != 0 {
		t.Errorf("table = %v headers, %d rows, want empty", table.Headers, table.RowCount())
	}
}

// ----------------------------------------------------------------------------
// XLSX Reading Tests
// ----------------------------------------------------------------------------

// buildXLSX assembles an in-memory workbook for reader tests.
func buildXLSX(t *testing.T, build func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	return buf.Bytes()
}

func TestReadTable_XLSX(t *testing.T) {
	data := buildXLSX(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Mobile No")
		f.SetCellValue("Sheet1", "B1", "First Name")
		f.SetCellValue("Sheet1", "A2", "9876543210")
		f.SetCellValue("Sheet1", "B2", "Asha")
	})

	table, err := ReadTable("records.xlsx", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	wantHeaders := []string{"Mobile No", "First Name"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", table.Headers, wantHeaders)
	}
	wantRows := [][]string{{"9876543210", "Asha"}}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %v, want %v", table.Rows, wantRows)
	}
}

func TestReadTable_XLSXDateCellsSurfaceAsSerials(t *testing.T) {
	data := buildXLSX(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "DOB")
		// A genuine numeric cell, as a date column exported from Excel
		// would carry
		f.SetCellValue("Sheet1", "A2", 45231)
	})

	table, err := ReadTable("records.xlsx", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}

	if got := table.Rows[0][0]; got != "45231" {
		t.Errorf("raw cell = %q, want %q", got, "45231")
	}

	// And the pipeline renders the serial as a date
	Clean(table, "")
	if got := table.Rows[0][0]; got != "01-11-2023" {
		t.Errorf("cleaned cell = %q, want %q", got, "01-11-2023")
	}
}

func TestReadTable_XLSXEmptySheet(t *testing.T) {
	data := buildXLSX(t, func(f *excelize.File) {})

	table, err := ReadTable("records.xlsx", data)
	if err != nil {
		t.Fatalf("ReadTable error: %v", err)
	}
	if len(table.Headers) != 0 || table.RowCount() != 0 {
		t.Errorf("table = %v headers, %d rows, want empty", table.Headers, table.RowCount())
	}
}

func TestReadTable_CorruptXLSX(t *testing.T) {
	_, err := ReadTable("records.xlsx", []byte("this is not a zip archive"))
	if err == nil {
		t.Fatal("ReadTable on corrupt data returned nil error")
	}
}

// ----------------------------------------------------------------------------
// XLS Reading Tests
// ----------------------------------------------------------------------------

func TestReadTable_CorruptXLS(t *testing.T) {
	_, err := ReadTable("records.xls", []byte("this is not a compound document"))
	if err == nil {
		t.Fatal("ReadTable on corrupt data returned nil error")
	}
}
