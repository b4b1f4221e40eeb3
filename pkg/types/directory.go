package types

import (
	"context"
	"io"
)

// Directory is a capability for one user-chosen folder. Names passed to its
// methods are relative to the folder.
type Directory interface {
	// Name returns a display name for the folder.
	Name() string

	// Open opens name for reading. A missing file yields an error that
	// wraps fs.ErrNotExist.
	Open(name string) (io.ReadCloser, error)

	// CreateWritable returns a stream that replaces name's content when
	// closed. Nothing is visible under name until Close succeeds.
	CreateWritable(name string) (Writable, error)
}

// Writable is a scoped write to one file. Exactly one of Close or Abort
// must be called.
type Writable interface {
	io.Writer

	// Close flushes and commits the written bytes.
	Close() error

	// Abort discards the written bytes. Safe to call after a failed Close.
	Abort() error
}

// DirectoryPicker turns a respondent's folder choice into a Directory.
// An empty choice is a cancelled selection and yields ErrPickerCancelled.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context, choice string) (Directory, error)
}

// CapabilityReporter is implemented by pickers that can tell in advance
// whether the environment lets them hand out writable folders.
type CapabilityReporter interface {
	Supported() bool
}
