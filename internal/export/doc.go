// Package export converts the banner ledger CSV into an XLSX workbook
// whose rows link to the captured screenshots.
//
// Each row's hyperlink is resolved through an ordered fallback list:
//
//	1. RAW_BASE_URL + relative path (serves the image bytes directly)
//	2. PUBLIC_BASE_URL + relative path (repository viewer page);
//	   a GitHub blob-style public base also yields a derived raw base
//	3. file:// URL of the local path, as a last resort
//
// The workbook never displays an absolute local path: the display text
// is the path relative to OUTPUT_ROOT, or just the file name when the
// path lies outside the root.
package export
