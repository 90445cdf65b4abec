// Package deps checks the external binaries the pipeline shells out to.
package deps
