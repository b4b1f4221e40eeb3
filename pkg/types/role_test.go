package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "speaker", want: RoleSpeaker},
		{in: "Listener", want: RoleListener},
		{in: " general ", want: RoleGeneral},
		{in: "", wantErr: true},
		{in: "observer", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRoleUnknown)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLikert(t *testing.T) {
	assert.Len(t, LikertScale, 6)
	for i, l := range LikertScale {
		assert.True(t, l.Valid())
		assert.Equal(t, i+1, l.Rank())
	}
	assert.Equal(t, "Somewhat Agree", SomewhatAgree.Label())

	_, err := ParseLikert("neutral")
	assert.ErrorIs(t, err, ErrInvalidLikert)

	got, err := ParseLikert("strongly_agree")
	require.NoError(t, err)
	assert.Equal(t, StronglyAgree, got)
	assert.Equal(t, 0, Likert("neutral").Rank())
}

func TestStorageErrorMatching(t *testing.T) {
	cause := fmt.Errorf("open x: %w", fs.ErrPermission)
	err := error(&StorageError{Op: "write", Name: "x_procs.csv", Err: cause})

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "write x_procs.csv")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrUserIDRequired, want: "Please enter a user ID"},
		{err: ErrDirectoryRequired, want: "Please select a directory"},
		{err: ErrPickerCancelled, want: "Failed to select directory"},
		{err: &StorageError{Op: "write", Name: "a", Err: fs.ErrPermission}, want: "Failed to save PROCS responses"},
		{err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}
}
