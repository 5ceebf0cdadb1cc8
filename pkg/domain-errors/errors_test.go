package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")

	err := Wrap(cause, CodeInternal, "failed to persist session")
	assert.EqualError(t, err, "failed to persist session: disk full")
	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeInternal))
	assert.False(t, HasCode(err, CodeNotFound))

	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestHasCode_NestedChain(t *testing.T) {
	inner := New(CodeNotFound, "session missing")
	outer := Wrap(fmt.Errorf("load: %w", inner), CodeInternal, "process token")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}
