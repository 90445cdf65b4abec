// Package runstore persists run history in a SQLite database guarded by a
// file lock so only one crosstalk process writes at a time.
package runstore
