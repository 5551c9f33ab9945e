package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		assert.Equal(t, CodeLobbyFull, CodeOf(ErrLobbyFull))
	})

	t.Run("wrapped with fmt", func(t *testing.T) {
		err := fmt.Errorf("join: %w", ErrAlreadyMember)
		assert.Equal(t, CodeAlreadyMember, CodeOf(err))
		assert.True(t, errors.Is(err, ErrAlreadyMember))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
		assert.False(t, HasCode(nil, CodeUnknown))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := ErrStorage(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "storage failure: disk on fire", err.Error())
	assert.True(t, HasCode(err, CodeInternal))
}
