package errcode

import (
	"errors"
	"fmt"
)

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Is matches errors by code so errors.Is works across Wrap
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Validation errors (1xxx) — resolved at the point of entry, never fatal
	ErrInvalidParam     = New(1001, "invalid parameter")
	ErrEmptyMessage     = New(1002, "message has no text and no attachments")
	ErrFileTooLarge     = New(1003, "file exceeds maximum size")
	ErrFileType         = New(1004, "file type not allowed")
	ErrDeletionDisabled = New(1005, "deletion not enabled for this role")

	// Token errors (2xxx)
	ErrTokenInvalid = New(2001, "token invalid")
	ErrTokenExpired = New(2002, "token expired")
	ErrTokenMissing = New(2003, "token missing")

	// Network errors (3xxx) — transient, cached state kept or left visibly failed
	ErrNetwork      = New(3001, "network request failed")
	ErrFetchFailed  = New(3002, "fetch failed")
	ErrSendFailed   = New(3003, "message send failed")
	ErrUploadFailed = New(3004, "attachment upload failed")

	// Not-found errors (4xxx) — silent no-op, the UI may be racing a deletion
	ErrConvNotFound    = New(4001, "conversation not found")
	ErrMessageNotFound = New(4002, "message not found")
	ErrUserNotFound    = New(4003, "user not found")

	// Channel errors (5xxx)
	ErrConnClosed       = New(5001, "connection closed")
	ErrWriteChannelFull = New(5002, "write channel full")
	ErrInvalidProtocol  = New(5003, "invalid protocol")
	ErrNotConnected     = New(5004, "channel not connected")
)

// IsValidation reports whether err is in the validation range
func IsValidation(err error) bool { return inRange(err, 1000) }

// IsNetwork reports whether err is in the network range
func IsNetwork(err error) bool { return inRange(err, 3000) }

// IsNotFound reports whether err is in the not-found range
func IsNotFound(err error) bool { return inRange(err, 4000) }

func inRange(err error, base int) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code >= base && e.Code < base+1000
}
