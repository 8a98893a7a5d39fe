package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeNotFound, "Request not found.")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeForbidden))
	})

	t.Run("wrapped with fmt", func(t *testing.T) {
		err := fmt.Errorf("loading request: %w", New(CodeForbidden, "nope"))
		assert.True(t, HasCode(err, CodeForbidden))
		assert.Equal(t, CodeForbidden, CodeOf(err))
	})

	t.Run("plain error has internal code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestErrorIsComparesCodeAndMessage(t *testing.T) {
	err := Wrap(errors.New("db down"), CodeInternal, "failed to load")
	require.ErrorIs(t, err, New(CodeInternal, "failed to load"))
	assert.NotErrorIs(t, err, New(CodeInternal, "another message"))
	assert.NotErrorIs(t, err, New(CodeNotFound, "failed to load"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to save")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save: connection reset", err.Error())
}

func TestValidationFields(t *testing.T) {
	err := Validation(map[string]any{
		"metadata": map[string]any{"reference_no": "This field is required."},
	})
	assert.True(t, HasCode(err, CodeValidation))
	nested, ok := err.Fields["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", nested["reference_no"])
}
