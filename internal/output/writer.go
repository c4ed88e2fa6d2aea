// Package output persists generated source files.
package output

import (
	"fmt"
	"os"
)

// WriteError is returned when a generated file cannot be persisted. It
// names the path that failed; the cause unwraps.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("output: failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying storage error.
func (e *WriteError) Unwrap() error { return e.Err }

// DiskWriter persists files to the local filesystem.
type DiskWriter struct{}

// Write replaces the entire contents of path with data, creating the
// file if absent. Parent directories are not created: a missing parent
// is a WriteError the same as a permission failure or a full disk, and
// there is no partial-write recovery.
func (DiskWriter) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // G306: generated source needs to be readable
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
