package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to a respondent matches exactly one of
// these through errors.Is.
var (
	ErrValidation             = errors.New("validation error")
	ErrDirectorySelection     = errors.New("directory selection error")
	ErrStorage                = errors.New("storage error")
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
)

// Validation errors.
var (
	ErrUserIDRequired    = fmt.Errorf("%w: please enter a user ID", ErrValidation)
	ErrDirectoryRequired = fmt.Errorf("%w: please select a directory", ErrValidation)
	ErrRoleUnknown       = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrInvalidLikert     = fmt.Errorf("%w: unrecognized response value", ErrValidation)
	ErrUnknownQuestion   = fmt.Errorf("%w: unknown question", ErrValidation)
	ErrIncomplete        = fmt.Errorf("%w: all questions must be answered", ErrValidation)
)

// Directory selection errors.
var (
	ErrPickerCancelled = fmt.Errorf("%w: selection cancelled", ErrDirectorySelection)
	ErrNotADirectory   = fmt.Errorf("%w: not a directory", ErrDirectorySelection)
)

var (
	// ErrInvalidTransition is returned when a session operation is not
	// allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRecordNotFound is returned by reads of a record that was never
	// written.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidFileName is returned when a record name is not a single
	// path element inside the chosen folder.
	ErrInvalidFileName = errors.New("invalid file name")

	// ErrMalformedRecord is returned when a persisted file does not hold a
	// header line and a data line.
	ErrMalformedRecord = errors.New("malformed record")
)

// StorageError describes a failed existence check, read, or write. It
// matches ErrStorage and unwraps to the underlying cause.
type StorageError struct {
	Op   string // "exists", "read" or "write"
	Name string // file name relative to the directory
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Message returns the text shown to a respondent for err. Known kinds get
// the short wording the front ends display; anything else falls back to
// err.Error().
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserIDRequired):
		return "Please enter a user ID"
	case errors.Is(err, ErrDirectoryRequired):
		return "Please select a directory"
	case errors.Is(err, ErrIncomplete):
		return "Please answer every question before saving"
	case errors.Is(err, ErrDirectorySelection):
		return "Failed to select directory"
	case errors.Is(err, ErrStorage):
		return "Failed to save PROCS responses"
	case errors.Is(err, ErrUnsupportedEnvironment):
		return "This environment cannot save to a local folder"
	default:
		return err.Error()
	}
}
