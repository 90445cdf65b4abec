package runstore

import "time"

// Kind identifies the operation a run performed.
type Kind string

const (
	KindTranscribe Kind = "transcribe"
	KindDiarize    Kind = "diarize"
	KindTextDiar   Kind = "textdiar"
)

// Status represents the lifecycle of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one pipeline invocation persisted in SQLite.
type Run struct {
	ID           string
	Kind         Kind
	Status       Status
	SourcePath   string
	Language     string
	Model        string
	Method       string
	SpeakerCount int
	SegmentCount int
	TurnCount    int
	OutputPath   string
	ReportPath   string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary describes aggregated run counts per lifecycle state.
type Summary struct {
	Total     int
	Running   int
	Completed int
	Failed    int
}
