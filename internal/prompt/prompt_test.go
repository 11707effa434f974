package prompt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestValidateIteration(t *testing.T) {
	for _, ok := range []string{"1", "0", "-5", "0x10", "1e6", " 42 "} {
		assert.NoError(t, validateIteration(ok), ok)
	}
	for _, bad := range []string{"", "one", "1.5"} {
		assert.Error(t, validateIteration(bad), bad)
	}
}

func TestValidatePrecision(t *testing.T) {
	for _, ok := range []string{"0", "6", "10000"} {
		assert.NoError(t, validatePrecision(ok), ok)
	}
	for _, bad := range []string{"", "-1", "10001", "six"} {
		assert.Error(t, validatePrecision(bad), bad)
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil))
	assert.ErrorIs(t, wrapError(promptui.ErrInterrupt), ErrAborted)
	assert.ErrorIs(t, wrapError(fmt.Errorf("ctx: %w", promptui.ErrAbort)), ErrAborted)
	other := errors.New("boom")
	assert.Equal(t, other, wrapError(other))
	assert.True(t, IsAborted(ErrAborted))
	assert.False(t, IsAborted(other))
}
