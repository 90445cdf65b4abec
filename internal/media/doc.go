// Package media prepares input files for the speech engines. Conversion
// always goes through ffmpeg into a scoped temp directory that the caller
// removes when the run finishes.
package media
