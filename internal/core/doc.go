// Package core provides the business logic for spreadsheet cleaning jobs.
//
// This package is the heart of the cleaner, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table: An in-memory spreadsheet (headers plus string rows) that every
//     stage of the pipeline operates on.
//   - Cleaning: A fixed, ordered sequence of column-scoped normalization
//     passes applied by [Clean], each recording its work in a change log.
//   - Service: The main entry point for all operations (jobs, preview,
//     downloads, templates).
//   - Workbook I/O: Readers for .xlsx, .xls, and .csv uploads and a writer
//     that produces the final .xlsx with forced-text columns and dropdowns.
//
// # Cleaning Jobs
//
// Jobs run asynchronously with bounded concurrency. The flow is:
//
//  1. Client calls [Service.StartCleanJob] with the uploaded files
//  2. Each file is read into a [Table] and cleaned by [Clean]
//  3. Merge jobs combine the tables and drop cross-file duplicate mobiles
//  4. The result workbook lands in the output directory for download
//  5. Progress is broadcast to subscribers via [Service.SubscribeProgress]
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (selection, size, count, type)
//   - WB001-WB003: Workbook errors (corrupt files, missing sheets)
//   - JOB001-JOB003: Job errors (not found, cancelled, timeout)
//   - RATE001-RATE002: Throttling errors
//
// # Output Retention
//
// Finished workbooks stay on disk for the configured retention window so
// download links remain valid, then the retention janitor removes them.
// The job record itself is dropped from memory on the same schedule.
package core
