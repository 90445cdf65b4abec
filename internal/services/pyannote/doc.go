// Package pyannote wraps the pyannote.audio speaker-diarization pipelines.
// The pipeline runs as a uvx subprocess from an embedded Python script, so a
// native crash in torch never takes down the caller: the script prints one
// JSON document on stdout and keeps all diagnostics on stderr.
package pyannote
