// Package store persists questionnaire records into a user-chosen folder.
// This file provides the folder capability on top of afero, with
// create-then-rename commits for writes.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// FSDirectory is a types.Directory rooted at one folder of an afero
// filesystem. Names cannot escape the folder.
type FSDirectory struct {
	name string
	path string
	fs   afero.Fs
}

// OpenDirectory returns a handle for path on fsys. path must name an
// existing directory.
func OpenDirectory(fsys afero.Fs, path string) (*FSDirectory, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrDirectorySelection, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrNotADirectory, path)
	}
	return &FSDirectory{
		name: filepath.Base(path),
		path: path,
		fs:   afero.NewBasePathFs(fsys, path),
	}, nil
}

// Name returns the folder's base name.
func (d *FSDirectory) Name() string { return d.name }

// Path returns the folder's path on the underlying filesystem.
func (d *FSDirectory) Path() string { return d.path }

// Open opens name for reading. A directory under name is reported as
// not found.
func (d *FSDirectory) Open(name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := d.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory: %w", name, fs.ErrNotExist)
	}
	return f, nil
}

// CreateWritable starts a write that replaces name on Close. The bytes go
// to a hidden sibling first, so an aborted or failed write never leaves a
// partial file under name.
func (d *FSDirectory) CreateWritable(name string) (types.Writable, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	tmp := "." + name + "-" + uuid.NewString() + ".tmp"
	f, err := d.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	return &swapFile{fs: d.fs, f: f, tmp: tmp, name: name}, nil
}

// checkName accepts only a single path element. BasePathFs compares
// string prefixes, so "x/../../data2/f" would otherwise reach a sibling
// folder whose name starts with this one's.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", types.ErrInvalidFileName, name)
	}
	return nil
}

// swapFile writes to tmp and renames it over name on Close.
type swapFile struct {
	fs   afero.Fs
	f    afero.File
	tmp  string
	name string
	done bool
}

func (s *swapFile) Write(p []byte) (int, error) {
	if s.done {
		return 0, os.ErrClosed
	}
	return s.f.Write(p)
}

func (s *swapFile) Close() error {
	if s.done {
		return os.ErrClosed
	}
	if err := s.f.Sync(); err != nil {
		return errors.Join(fmt.Errorf("syncing temp file: %w", err), s.Abort())
	}
	if err := s.f.Close(); err != nil {
		s.f = nil
		return errors.Join(fmt.Errorf("closing temp file: %w", err), s.Abort())
	}
	s.f = nil
	if err := s.fs.Rename(s.tmp, s.name); err != nil {
		return errors.Join(fmt.Errorf("renaming temp file: %w", err), s.Abort())
	}
	s.done = true
	return nil
}

func (s *swapFile) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	if s.f != nil {
		s.f.Close()
		s.f = nil
	}
	if err := s.fs.Remove(s.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temp file: %w", err)
	}
	return nil
}
