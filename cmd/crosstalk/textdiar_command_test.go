package main

import (
	"testing"

	"crosstalk/internal/config"
	"crosstalk/internal/textdiar"
)

func TestTextDiarOptionsDefaults(t *testing.T) {
	defaults := config.Default().TextDiar
	noneChanged := func(string) bool { return false }

	opts, err := textDiarOptions(defaults, "", 0, 0, false, false, 0, noneChanged)
	if err != nil {
		t.Fatalf("textDiarOptions: %v", err)
	}
	if opts.Method != textdiar.MethodAlternating {
		t.Fatalf("Method = %q, want alternating default", opts.Method)
	}
	if opts.Speakers != defaults.Speakers || opts.MaxSpeakers != defaults.MaxSpeakers {
		t.Fatalf("speaker bounds not taken from config: %+v", opts)
	}
	if opts.MergeThreshold != defaults.MergeThreshold {
		t.Fatalf("MergeThreshold = %d, want %d", opts.MergeThreshold, defaults.MergeThreshold)
	}
}

func TestTextDiarOptionsFlagOverrides(t *testing.T) {
	defaults := config.Default().TextDiar
	defaults.SentenceUnits = true
	changed := func(name string) bool { return name == "sentences" }

	opts, err := textDiarOptions(defaults, "block", 4, 8, false, false, 25, changed)
	if err != nil {
		t.Fatalf("textDiarOptions: %v", err)
	}
	if opts.Method != textdiar.MethodBlock {
		t.Fatalf("Method = %q, want block", opts.Method)
	}
	if opts.Speakers != 4 || opts.MaxSpeakers != 8 || opts.MergeThreshold != 25 {
		t.Fatalf("numeric overrides not applied: %+v", opts)
	}
	if opts.SentenceUnits {
		t.Fatal("explicit --sentences=false must override config")
	}
	if opts.MergeShort {
		t.Fatal("unset --merge-short must keep config default false")
	}
}

func TestTextDiarOptionsRejectsUnknownMethod(t *testing.T) {
	defaults := config.Default().TextDiar
	if _, err := textDiarOptions(defaults, "psychic", 0, 0, false, false, 0, func(string) bool { return false }); err == nil {
		t.Fatal("unknown method must be rejected")
	}
}
