// Package whisper wraps the openai-whisper CLI, launched through uvx so no
// Python environment management leaks into the caller. The engine writes
// JSON to an output directory; this package parses it into timed segments.
package whisper
