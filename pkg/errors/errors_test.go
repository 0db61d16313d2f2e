// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/confguard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "already_guarded",
			code:    errors.ErrAlreadyGuarded,
			message: "project already guarded",
			wantStr: "[ALREADY_GUARDED] project already guarded",
		},
		{
			name:    "backup_exists",
			code:    errors.ErrBackupExists,
			message: "backup dir exists",
			wantStr: "[BACKUP_EXISTS] backup dir exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("permission denied")

	err := errors.Wrapf(base, errors.ErrBackupNotDeleted, "could not delete %s", "/tmp/x")
	require.NotNil(t, err)
	assert.Equal(t, "[BACKUP_NOT_DELETED] could not delete /tmp/x: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.Nil(t, errors.Wrap(nil, errors.ErrMove, "nothing"))
}

func TestIs_MatchesOnCode(t *testing.T) {
	err := errors.New(errors.ErrNotGuarded, "first")
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrNotGuarded, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrAlreadyGuarded, "first")))
}

func TestIsErrorCode_WalksChain(t *testing.T) {
	inner := errors.New(errors.ErrSymlinkCreate, "link failed")
	outer := errors.Wrap(inner, errors.ErrRollback, "rollback failed")
	wrapped := fmt.Errorf("guard: %w", outer)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrRollback))
	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrSymlinkCreate))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrMove))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrMove))
}

func TestGetErrorCodeAndDetails(t *testing.T) {
	err := errors.New(errors.ErrMove, "rename failed").
		WithDetail("path", "/src/.envrc")

	assert.Equal(t, errors.ErrMove, errors.GetErrorCode(err))
	assert.Equal(t, "/src/.envrc", errors.GetErrorDetails(err)["path"])

	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
