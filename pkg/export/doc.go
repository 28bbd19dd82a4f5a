// Package export renders analysis results into downloadable formats.
//
// Two formats are supported: a CSV control matrix suitable for
// spreadsheet review, and a standalone HTML compliance report built
// from markdown.
package export
