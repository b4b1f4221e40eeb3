package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// PathPicker resolves a typed folder path into a directory handle.
// Relative choices are resolved against Base.
type PathPicker struct {
	Fs   afero.Fs
	Base string
}

// NewPathPicker returns a picker over the OS filesystem that resolves
// relative paths against base.
func NewPathPicker(base string) *PathPicker {
	return &PathPicker{Fs: afero.NewOsFs(), Base: base}
}

// PickDirectory implements types.DirectoryPicker. A blank choice is a
// cancelled selection.
func (p *PathPicker) PickDirectory(ctx context.Context, choice string) (types.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrDirectorySelection, err)
	}
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return nil, types.ErrPickerCancelled
	}
	path := expandHome(choice)
	if !filepath.IsAbs(path) && p.Base != "" {
		path = filepath.Join(p.Base, path)
	}
	dir, err := OpenDirectory(p.Fs, filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return dir, nil
}

// Supported reports whether the picker can hand out writable folders. A
// read-only filesystem cannot; its folders still serve existence checks.
func (p *PathPicker) Supported() bool {
	if p.Fs == nil {
		return false
	}
	_, readOnly := p.Fs.(*afero.ReadOnlyFs)
	return !readOnly
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
