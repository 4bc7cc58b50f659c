package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	wrapped := ErrSendFailed.Wrap(errors.New("connection reset"))
	assert.True(t, errors.Is(wrapped, ErrSendFailed))
	assert.Contains(t, wrapped.Error(), "connection reset")

	assert.Same(t, ErrSendFailed, ErrSendFailed.Wrap(nil))
}

func TestRanges(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyMessage))
	assert.True(t, IsValidation(ErrFileTooLarge))
	assert.False(t, IsValidation(ErrNetwork))

	assert.True(t, IsNetwork(ErrSendFailed.Wrap(errors.New("x"))))
	assert.False(t, IsNetwork(ErrConvNotFound))

	assert.True(t, IsNotFound(ErrMessageNotFound))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestRangesThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrConvNotFound)
	assert.True(t, IsNotFound(err))
	assert.True(t, errors.Is(err, ErrConvNotFound))
}
