package core

import (
	"errors"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "no files maps correctly",
			err:         errors.New("no files uploaded"),
			wantCode:    "FILE001",
			wantMessage: "No file was selected",
		},
		{
			name:        "empty file maps correctly",
			err:         errors.New("empty file: records.xlsx"),
			wantCode:    "FILE002",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "size limit maps correctly",
			err:         errors.New("file big.xlsx exceeds 100MB limit"),
			wantCode:    "FILE003",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "request body limit maps correctly",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE003",
			wantMessage: "Upload exceeds the maximum request size",
		},
		{
			name:        "file count maps correctly",
			err:         errors.New("too many files: got 25, limit is 20"),
			wantCode:    "FILE004",
			wantMessage: "Too many files in one batch",
		},
		{
			name:        "unsupported type maps correctly",
			err:         errors.New("unsupported file type: report.pdf"),
			wantCode:    "FILE005",
			wantMessage: "File type is not supported",
		},
		{
			name:        "single mode count maps correctly",
			err:         errors.New("single mode accepts exactly one file, got 3"),
			wantCode:    "FILE006",
			wantMessage: "Single mode needs exactly one file",
		},
		{
			name:        "corrupt workbook maps correctly",
			err:         errors.New("open workbook: zip: not a valid zip archive"),
			wantCode:    "WB001",
			wantMessage: "The .xlsx file could not be opened",
		},
		{
			name:        "missing sheets maps correctly",
			err:         errors.New("workbook has no sheets"),
			wantCode:    "WB002",
			wantMessage: "The workbook contains no worksheets",
		},
		{
			name:        "csv parse maps correctly",
			err:         errors.New(`parse csv: record on line 3: wrong number of fields`),
			wantCode:    "WB003",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "job not found maps correctly",
			err:         errors.New("job not found: abc123"),
			wantCode:    "JOB001",
			wantMessage: "Job not found",
		},
		{
			name:        "cancelled job maps correctly",
			err:         errors.New("job cancelled"),
			wantCode:    "JOB002",
			wantMessage: "Job was cancelled",
		},
		{
			name:        "deadline maps correctly",
			err:         errors.New("context deadline exceeded"),
			wantCode:    "JOB003",
			wantMessage: "Request timed out",
		},
		{
			name:        "busy limiter maps correctly",
			err:         errors.New("too many concurrent jobs, please try again later"),
			wantCode:    "RATE001",
			wantMessage: "System is busy processing other jobs",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE002",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("UNSUPPORTED FILE TYPE: X.GIF"),
			wantCode:    "FILE005",
			wantMessage: "File type is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("unsupported file type: report.pdf")
	result := FormatUserError(err)

	expected := "File type is not supported (Code: FILE005). Save the file as .xlsx, .xls, or .csv and retry"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("job not found: xyz"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := errors.New("open workbook: zip: not a valid zip archive")
		userErr := NewUserError(techErr)

		if userErr.Error() != "The .xlsx file could not be opened" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, techErr) {
			t.Error("Unwrap() should return original error")
		}
	})
}
