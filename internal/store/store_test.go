package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/procs/pkg/types"
)

var header = []string{
	"User ID", "Question 1", "Question 2", "Question 3", "Question 4", "Question 5",
	"Question 6", "Question 7", "Question 8", "Question 9", "Question 10",
}

func agreeRow(userID string) []string {
	row := []string{userID}
	for range 10 {
		row = append(row, "agree")
	}
	return row
}

// newMemDir returns a handle on /data of a fresh in-memory filesystem.
func newMemDir(t *testing.T) (afero.Fs, *FSDirectory) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/data", 0o755))
	dir, err := OpenDirectory(fsys, "/data")
	require.NoError(t, err)
	return fsys, dir
}

func TestWriteProducesExactRecord(t *testing.T) {
	fsys, dir := newMemDir(t)
	s := New(nil)

	require.NoError(t, s.Write(context.Background(), dir, "p007_procs.csv", header, agreeRow("p007")))

	data, err := afero.ReadFile(fsys, "/data/p007_procs.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"User ID,Question 1,Question 2,Question 3,Question 4,Question 5,Question 6,Question 7,Question 8,Question 9,Question 10\n"+
			"p007,agree,agree,agree,agree,agree,agree,agree,agree,agree,agree",
		string(data))

	entries, err := afero.ReadDir(fsys, "/data")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file may remain after a commit")
}

func TestWriteReplacesContent(t *testing.T) {
	fsys, dir := newMemDir(t)
	s := New(nil)
	require.NoError(t, afero.WriteFile(fsys, "/data/u_procs.csv", []byte("old content that is longer than the new one\nx\ny\nz"), 0o644))

	require.NoError(t, s.Write(context.Background(), dir, "u_procs.csv", []string{"h"}, []string{"r"}))

	data, err := afero.ReadFile(fsys, "/data/u_procs.csv")
	require.NoError(t, err)
	assert.Equal(t, "h\nr", string(data))
}

func TestExists(t *testing.T) {
	fsys, dir := newMemDir(t)
	s := New(nil)
	ctx := context.Background()

	ok, err := s.Exists(ctx, dir, "p007_procs.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, afero.WriteFile(fsys, "/data/p007_procs.csv", []byte("x"), 0o644))
	ok, err = s.Exists(ctx, dir, "p007_procs.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, dir, "p007_listener_procs.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExistsTreatsDirectoryAsAbsent(t *testing.T) {
	fsys, dir := newMemDir(t)
	require.NoError(t, fsys.MkdirAll("/data/p007_procs.csv", 0o755))

	ok, err := New(nil).Exists(context.Background(), dir, "p007_procs.csv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNestedNamesStayInFolder(t *testing.T) {
	fsys, dir := newMemDir(t)
	require.NoError(t, fsys.MkdirAll("/data2", 0o755))
	s := New(nil)
	ctx := context.Background()
	name := "x/../../data2/p007_procs.csv"

	ok, err := s.Exists(ctx, dir, name)
	assert.False(t, ok)
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorIs(t, err, types.ErrInvalidFileName)

	err = s.Write(ctx, dir, name, []string{"h"}, []string{"r"})
	assert.ErrorIs(t, err, types.ErrStorage)

	_, err = s.Read(ctx, dir, name)
	assert.ErrorIs(t, err, types.ErrStorage)

	exists, err := afero.Exists(fsys, "/data2/p007_procs.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExistsSurfacesOtherFailures(t *testing.T) {
	s := New(nil)
	dir := &faultyDir{openErr: &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}}

	ok, err := s.Exists(context.Background(), dir, "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestExistsWithoutDirectory(t *testing.T) {
	s := New(nil)
	_, err := s.Exists(context.Background(), nil, "x")
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestWriteReadOnlyFolder(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/data", 0o755))
	dir, err := OpenDirectory(afero.NewReadOnlyFs(mem), "/data")
	require.NoError(t, err)

	err = New(nil).Write(context.Background(), dir, "p007_procs.csv", header, agreeRow("p007"))
	assert.ErrorIs(t, err, types.ErrStorage)

	exists, err := afero.Exists(mem, "/data/p007_procs.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriteAbortsOnWriteFailure(t *testing.T) {
	w := &faultyWritable{writeErr: errors.New("disk full")}
	dir := &faultyDir{writable: w}

	err := New(nil).Write(context.Background(), dir, "p007_procs.csv", header, agreeRow("p007"))
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, w.aborted, "failed write must be aborted")
	assert.False(t, w.closed)
}

func TestWriteCancelledContext(t *testing.T) {
	_, dir := newMemDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(nil).Write(ctx, dir, "a.csv", header, agreeRow("a"))
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead(t *testing.T) {
	fsys, dir := newMemDir(t)
	s := New(nil)
	ctx := context.Background()

	_, err := s.Read(ctx, dir, "p007_procs.csv")
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	require.NoError(t, s.Write(ctx, dir, "p007_procs.csv", header, agreeRow("p007")))
	rec, err := s.Read(ctx, dir, "p007_procs.csv")
	require.NoError(t, err)
	assert.Equal(t, header, rec.Header)
	assert.Equal(t, agreeRow("p007"), rec.Row)

	require.NoError(t, afero.WriteFile(fsys, "/data/bad.csv", []byte("only a header"), 0o644))
	_, err = s.Read(ctx, dir, "bad.csv")
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
}

func TestFormat(t *testing.T) {
	got := Format([]string{"a", "b"}, []string{"1", "2"})
	assert.Equal(t, "a,b\n1,2", got)
	assert.False(t, strings.HasSuffix(got, "\n"))
}

type faultyDir struct {
	openErr  error
	writable *faultyWritable
}

func (d *faultyDir) Name() string { return "faulty" }

func (d *faultyDir) Open(string) (io.ReadCloser, error) {
	return nil, d.openErr
}

func (d *faultyDir) CreateWritable(string) (types.Writable, error) {
	if d.writable == nil {
		return nil, fs.ErrPermission
	}
	return d.writable, nil
}

type faultyWritable struct {
	writeErr error
	aborted  bool
	closed   bool
}

func (w *faultyWritable) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	return len(p), nil
}

func (w *faultyWritable) Close() error {
	w.closed = true
	return nil
}

func (w *faultyWritable) Abort() error {
	w.aborted = true
	return nil
}
