// Package core provides the business logic for spreadsheet cleaning jobs.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file selection and upload limits:
//
//	FILE001 - No file: No file was selected
//	          Action: Please choose a spreadsheet to upload
//	          Patterns: "no files uploaded"
//
//	FILE002 - Empty file: The uploaded file is empty
//	          Action: Please upload a spreadsheet with data rows
//	          Patterns: "empty file"
//
//	FILE003 - File too large: File exceeds the maximum size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "mb limit", "request body too large"
//
//	FILE004 - Too many files: Batch exceeds the file count limit
//	          Action: Upload fewer files per batch
//	          Patterns: "too many files"
//
//	FILE005 - Unsupported type: File is not .xlsx, .xls, or .csv
//	          Action: Save the file as .xlsx, .xls, or .csv and retry
//	          Patterns: "unsupported file type"
//
//	FILE006 - Wrong count: Single mode needs exactly one file
//	          Action: Select one file, or switch to merge mode
//	          Patterns: "exactly one file"
//
// # Workbook Errors (WB001-WB099)
//
// Errors related to reading and parsing spreadsheets:
//
//	WB001 - Corrupt workbook: The .xlsx file could not be opened
//	        Action: Re-export the file from Excel and try again
//	        Patterns: "not a valid zip archive"
//
//	WB002 - No sheets: The workbook contains no worksheets
//	        Action: Ensure the first sheet holds the data
//	        Patterns: "has no sheets"
//
//	WB003 - Invalid CSV: File is not a valid CSV
//	        Action: Ensure the file is comma-separated with quoted fields
//	        Patterns: "parse csv"
//
// # Job Errors (JOB001-JOB099)
//
// Errors related to job lifecycle and session management:
//
//	JOB001 - Job not found: The job ID does not exist
//	         Action: The job may have expired. Please start a new one
//	         Patterns: "job not found"
//
//	JOB002 - Job cancelled: Job was cancelled
//	         Action: Start a new job when ready
//	         Patterns: "job cancelled", "context canceled"
//
//	JOB003 - Job timeout: Job ran out of time
//	         Action: Try smaller files or fewer files per batch
//	         Patterns: "job timed out", "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
// Errors related to request throttling:
//
//	RATE001 - System busy: Too many jobs in progress
//	          Action: Please wait a moment and try again
//	          Patterns: "too many concurrent jobs"
//
//	RATE002 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code
// (e.g., JOB003 matches both "job timed out" and "context deadline exceeded").
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE006)
	// These errors occur before a job slot is taken.
	// =========================================================================
	{
		pattern: "no files uploaded",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please choose a spreadsheet to upload",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a spreadsheet with data rows",
			Code:    "FILE002",
		},
	},
	{
		pattern: "mb limit",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE003",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload exceeds the maximum request size",
			Action:  "Split the batch into smaller uploads",
			Code:    "FILE003",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one batch",
			Action:  "Upload fewer files per batch",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Save the file as .xlsx, .xls, or .csv and retry",
			Code:    "FILE005",
		},
	},
	{
		pattern: "exactly one file",
		msg: UserMessage{
			Message: "Single mode needs exactly one file",
			Action:  "Select one file, or switch to merge mode",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Workbook Errors (WB001-WB003)
	// These errors occur while reading and parsing spreadsheets.
	// =========================================================================
	{
		pattern: "not a valid zip archive",
		msg: UserMessage{
			Message: "The .xlsx file could not be opened",
			Action:  "Re-export the file from Excel and try again",
			Code:    "WB001",
		},
	},
	{
		pattern: "has no sheets",
		msg: UserMessage{
			Message: "The workbook contains no worksheets",
			Action:  "Ensure the first sheet holds the data",
			Code:    "WB002",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with quoted fields",
			Code:    "WB003",
		},
	},

	// =========================================================================
	// Job Errors (JOB001-JOB003)
	// These errors occur during the job lifecycle.
	// =========================================================================
	{
		pattern: "job not found",
		msg: UserMessage{
			Message: "Job not found",
			Action:  "The job may have expired. Please start a new one",
			Code:    "JOB001",
		},
	},
	{
		pattern: "job cancelled",
		msg: UserMessage{
			Message: "Job was cancelled",
			Action:  "Start a new job when ready",
			Code:    "JOB002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "JOB002",
		},
	},
	{
		pattern: "job timed out",
		msg: UserMessage{
			Message: "Job ran out of time",
			Action:  "Try smaller files or fewer files per batch",
			Code:    "JOB003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "JOB003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001-RATE002)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "too many concurrent jobs",
		msg: UserMessage{
			Message: "System is busy processing other jobs",
			Action:  "Please wait a moment and try again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("unsupported file type: report.pdf")
//	msg := MapError(err)
//	// msg.Code == "FILE005"
//	// msg.Message == "File type is not supported"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "File type is not supported (Code: FILE005). Save the file as .xlsx, .xls, or .csv and retry"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// WrapWithUserMessage wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(readErr)
//	log.Error(ue.Technical)          // Log original error
//	fmt.Println(ue.Error())           // Show "The .xlsx file could not be opened"
//	fmt.Println(ue.User.Code)         // Show "WB001"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
