package config

const (
	defaultOutputDir      = "~/crosstalk"
	defaultStateDir       = "~/.local/share/crosstalk"
	defaultLogDir         = "~/.local/share/crosstalk/logs"
	defaultWhisperModel   = "base"
	defaultLanguage       = "auto"
	defaultTextDiarMethod = "alternating"
	defaultSpeakers       = 2
	defaultMaxSpeakers    = 6
	defaultMergeThreshold = 40
	defaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Whisper: Whisper{
			Model:    defaultWhisperModel,
			Language: defaultLanguage,
		},
		TextDiar: TextDiar{
			Method:         defaultTextDiarMethod,
			Speakers:       defaultSpeakers,
			MaxSpeakers:    defaultMaxSpeakers,
			MergeThreshold: defaultMergeThreshold,
			EmbeddingModel: defaultEmbeddingModel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
