// Package language normalizes user-supplied language identifiers for the
// transcription engines. It accepts ISO 639-1/639-2 codes and full word
// forms and degrades anything unrecognized to auto-detect.
package language
