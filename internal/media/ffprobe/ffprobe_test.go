package ffprobe

import "testing"

const samplePayload = `{
	"streams": [
		{"index": 0, "codec_name": "h264", "codec_type": "video"},
		{"index": 1, "codec_name": "aac", "codec_type": "audio",
		 "sample_rate": "48000", "channels": 2,
		 "tags": {"language": "ENG"}}
	],
	"format": {"filename": "in.mkv", "nb_streams": 2,
	 "duration": "63.5", "size": "1048576", "format_name": "matroska"}
}`

func TestParseSample(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream")
	}
	if got := result.AudioStreamCount(); got != 1 {
		t.Fatalf("audio streams = %d, want 1", got)
	}
	if got := result.DurationSeconds(); got != 63.5 {
		t.Fatalf("duration = %v", got)
	}
	if got := result.SizeBytes(); got != 1048576 {
		t.Fatalf("size = %d", got)
	}
	if got := result.Language(); got != "eng" {
		t.Fatalf("language = %q", got)
	}
	stream, ok := result.FirstAudioStream()
	if !ok || stream.Index != 1 || stream.Channels != 2 {
		t.Fatalf("first audio stream: %+v (%v)", stream, ok)
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	payload := `{"streams":[{"index":0,"codec_type":"audio","duration":"12.25"}],"format":{}}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.DurationSeconds(); got != 12.25 {
		t.Fatalf("duration = %v", got)
	}
}

func TestNoAudio(t *testing.T) {
	payload := `{"streams":[{"index":0,"codec_type":"video"}],"format":{"duration":"bad"}}`
	result, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.HasAudio() {
		t.Fatal("unexpected audio stream")
	}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("duration = %v", got)
	}
	if got := result.Language(); got != "" {
		t.Fatalf("language = %q", got)
	}
}
