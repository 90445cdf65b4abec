package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const renameFixture = "[00:00:00.000 - 00:00:02.500] SPK1: Hello there.\n" +
	"[00:00:02.500 - 00:00:05.000] SPK2: Hi, good morning.\n"

func TestRenamePrintsToStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.txt")
	if err := os.WriteFile(path, []byte(renameFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, _, err := runCommand(t, "rename", path, "SPK1=Alice", "SPK2=Bob")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !strings.Contains(out, "Alice: Hello there.") || !strings.Contains(out, "Bob: Hi, good morning.") {
		t.Fatalf("labels not renamed:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if string(data) != renameFixture {
		t.Fatal("file modified without --write")
	}
}

func TestRenameWritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.txt")
	if err := os.WriteFile(path, []byte(renameFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, _, err := runCommand(t, "rename", "--write", path, "SPK1=Alice"); err != nil {
		t.Fatalf("rename --write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Alice: Hello there.") {
		t.Fatalf("file not rewritten:\n%s", text)
	}
	if !strings.Contains(text, "SPK2: Hi, good morning.") {
		t.Fatalf("unmapped label must survive:\n%s", text)
	}
}

func TestRenameRejectsBadPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.txt")
	if err := os.WriteFile(path, []byte(renameFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := runCommand(t, "rename", path, "SPK1")
	if err == nil || !strings.Contains(err.Error(), "OLD=NEW") {
		t.Fatalf("expected OLD=NEW error, got %v", err)
	}
}

func TestParseRenamePairs(t *testing.T) {
	names, err := parseRenamePairs([]string{"SPK1=Alice", " SPK2 = Bob "})
	if err != nil {
		t.Fatalf("parseRenamePairs: %v", err)
	}
	if names["SPK1"] != "Alice" || names["SPK2"] != "Bob" {
		t.Fatalf("names = %v", names)
	}

	if _, err := parseRenamePairs([]string{"=Bob"}); err == nil {
		t.Fatal("empty OLD must be rejected")
	}
}
