// Package ffprobe provides a typed wrapper around ffprobe JSON output,
// focused on the audio properties that matter before transcription:
// stream presence, duration, sample rate and language tags.
package ffprobe
