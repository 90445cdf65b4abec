// Package report renders aligned transcripts as plain text and HTML, with
// speaker label remapping applied at render time.
package report
