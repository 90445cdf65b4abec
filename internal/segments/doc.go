// Package segments holds the transcript data model and the time aligner that
// merges transcription output with diarization output.
//
// The aligner is a pure function: for each text segment it picks the speaker
// turn with the greatest temporal overlap, falling back to UNKNOWN when
// nothing overlaps. Output order and count always match the text input.
package segments
