// Package preflight aggregates readiness checks run before the pipeline
// touches any input: external binaries, directory access, disk space and
// engine credentials.
package preflight
