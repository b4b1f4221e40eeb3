package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// Store checks for and writes questionnaire records. A record is a file
// holding a header line and one data line, comma-joined without quoting.
type Store struct {
	log *zap.Logger
}

// New returns a Store. A nil logger disables logging.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log}
}

// Record is a persisted response file split back into its two lines.
type Record struct {
	Header []string `json:"header"`
	Row    []string `json:"row"`
}

// Exists reports whether name is present in dir. Only a not-found failure
// yields false; every other failure is a *types.StorageError.
func (s *Store) Exists(ctx context.Context, dir types.Directory, name string) (bool, error) {
	if err := s.check(ctx, dir, "exists", name); err != nil {
		return false, err
	}
	f, err := dir.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		s.log.Warn("existence check failed", zap.String("file", name), zap.Error(err))
		return false, &types.StorageError{Op: "exists", Name: name, Err: err}
	}
	_ = f.Close()
	return true, nil
}

// Write replaces name in dir with header and row. The write is committed
// only once every byte is written; on any failure the partial content is
// discarded and a *types.StorageError is returned.
func (s *Store) Write(ctx context.Context, dir types.Directory, name string, header, row []string) error {
	if err := s.check(ctx, dir, "write", name); err != nil {
		return err
	}
	w, err := dir.CreateWritable(name)
	if err != nil {
		s.log.Warn("write failed", zap.String("file", name), zap.Error(err))
		return &types.StorageError{Op: "write", Name: name, Err: err}
	}

	content := Format(header, row)
	if _, err := io.WriteString(w, content); err != nil {
		err = errors.Join(err, w.Abort())
		s.log.Warn("write failed", zap.String("file", name), zap.Error(err))
		return &types.StorageError{Op: "write", Name: name, Err: err}
	}
	if err := w.Close(); err != nil {
		s.log.Warn("write failed", zap.String("file", name), zap.Error(err))
		return &types.StorageError{Op: "write", Name: name, Err: err}
	}

	s.log.Info("record written",
		zap.String("directory", dir.Name()),
		zap.String("file", name),
		zap.Int("bytes", len(content)))
	return nil
}

// Read loads name from dir. A missing file wraps types.ErrRecordNotFound.
func (s *Store) Read(ctx context.Context, dir types.Directory, name string) (Record, error) {
	if err := s.check(ctx, dir, "read", name); err != nil {
		return Record{}, err
	}
	f, err := dir.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, fmt.Errorf("%s: %w", name, types.ErrRecordNotFound)
		}
		return Record{}, &types.StorageError{Op: "read", Name: name, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Record{}, &types.StorageError{Op: "read", Name: name, Err: err}
	}
	if len(lines) < 2 || lines[0] == "" {
		return Record{}, fmt.Errorf("%s: %w", name, types.ErrMalformedRecord)
	}
	return Record{
		Header: strings.Split(lines[0], ","),
		Row:    strings.Split(lines[1], ","),
	}, nil
}

// Format renders header and row as the two-line record body. There is no
// trailing newline.
func Format(header, row []string) string {
	return strings.Join(header, ",") + "\n" + strings.Join(row, ",")
}

// check rejects cancelled contexts and missing directory handles.
func (s *Store) check(ctx context.Context, dir types.Directory, op, name string) error {
	if err := ctx.Err(); err != nil {
		return &types.StorageError{Op: op, Name: name, Err: err}
	}
	if dir == nil {
		return &types.StorageError{Op: op, Name: name, Err: types.ErrDirectoryRequired}
	}
	return nil
}
