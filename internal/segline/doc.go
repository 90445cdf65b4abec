// Package segline converts between rendered transcript lines of the form
// "[start-end] speaker: text" and a structured view. Parsing is best-effort:
// malformed lines yield nil rather than an error, since rendered transcripts
// are human-edited text, not a strict protocol.
package segline
