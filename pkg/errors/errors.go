package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrInvalidPath  ErrorCode = "INVALID_PATH"

	// Guard state errors
	ErrAlreadyGuarded ErrorCode = "ALREADY_GUARDED"
	ErrNotGuarded     ErrorCode = "NOT_GUARDED"

	// Configuration errors
	ErrConfigLoad   ErrorCode = "CONFIG_LOAD"
	ErrConfigParse  ErrorCode = "CONFIG_PARSE"
	ErrConfigValid  ErrorCode = "CONFIG_INVALID"
	ErrConfigSave   ErrorCode = "CONFIG_SAVE"
	ErrConfigExists ErrorCode = "CONFIG_EXISTS"

	// Backup errors
	ErrBackupExists     ErrorCode = "BACKUP_EXISTS"
	ErrBackupCreate     ErrorCode = "BACKUP_CREATE"
	ErrBackupRestore    ErrorCode = "BACKUP_RESTORE"
	ErrBackupNotDeleted ErrorCode = "BACKUP_NOT_DELETED"

	// Relocation errors
	ErrMove            ErrorCode = "MOVE"
	ErrStorageNotEmpty ErrorCode = "STORAGE_NOT_EMPTY"

	// Link errors
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
	ErrSymlinkExists ErrorCode = "SYMLINK_EXISTS"
	ErrNotSymlink    ErrorCode = "NOT_SYMLINK"

	// Transaction errors
	ErrRollback ErrorCode = "ROLLBACK"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// ConfguardError represents a structured error with code and details
type ConfguardError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ConfguardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfguardError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ConfguardError) Is(target error) bool {
	var targetErr *ConfguardError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConfguardError with the given code and message
func New(code ErrorCode, message string) *ConfguardError {
	return &ConfguardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConfguardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConfguardError {
	return &ConfguardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ConfguardError
func Wrap(err error, code ErrorCode, message string) *ConfguardError {
	if err == nil {
		return nil
	}
	return &ConfguardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConfguardError {
	if err == nil {
		return nil
	}
	return &ConfguardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ConfguardError) WithDetail(key string, value interface{}) *ConfguardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var cgErr *ConfguardError
		if !errors.As(err, &cgErr) {
			return false
		}
		if cgErr.Code == code {
			return true
		}
		err = cgErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a ConfguardError
func GetErrorCode(err error) ErrorCode {
	var cgErr *ConfguardError
	if errors.As(err, &cgErr) {
		return cgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ConfguardError
func GetErrorDetails(err error) map[string]interface{} {
	var cgErr *ConfguardError
	if errors.As(err, &cgErr) {
		return cgErr.Details
	}
	return nil
}
