package whisper

// Config captures runtime settings for Whisper transcription.
type Config struct {
	// Model is the Whisper model to load (e.g. "base", "small", "large-v3").
	Model string
	// Language is an ISO-639-1 code, or "auto" / empty for detection.
	Language string
}

// Whisper configuration constants.
const (
	DefaultModel = "base"
	OutputFormat = "json"
	// PackageSpec is the PyPI package that provides the whisper CLI.
	PackageSpec = "openai-whisper"
)

// Command names for external tools.
const (
	UVXCommand     = "uvx"
	WhisperCommand = "whisper"
)
