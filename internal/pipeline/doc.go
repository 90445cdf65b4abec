// Package pipeline orchestrates complete processing runs: probe, convert,
// transcribe, diarize, align, record and render. Each run is recorded in the
// run store and tagged with a run ID that flows through logging.
package pipeline
