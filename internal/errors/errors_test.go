package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeCardNotFound, "no card with instanceId x", map[string]string{"instance_id": "x"})
	assert.True(t, stderrors.Is(err, ErrCardNotFound))
	assert.False(t, stderrors.Is(err, ErrNoActiveRun))

	wrapped := fmt.Errorf("play: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrCardNotFound))
	assert.Equal(t, CodeCardNotFound, GetCode(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(CodeDeckInvalid, "load deck", cause)
	assert.Equal(t, "load deck: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeUnknown, GetCode(nil))
}

func TestFatal(t *testing.T) {
	assert.True(t, CodeUnknownEffect.Fatal())
	assert.True(t, CodePlayLimitReached.Fatal())
	assert.False(t, CodeInvalidChoice.Fatal())
	assert.False(t, CodeDeckInvalid.Fatal())
}
