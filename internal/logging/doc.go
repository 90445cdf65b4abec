// Package logging builds the application slog logger. Two formats are
// supported: a one-line console format for interactive use and JSON for
// machine consumption. Run IDs and component names travel in the context
// and become structured fields on every record.
package logging
