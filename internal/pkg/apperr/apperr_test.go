package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSessionFull = New(KindCapacity, "session is full")

func TestIsMatchesCopies(t *testing.T) {
	wrapped := errSessionFull.Wrap(errors.New("3 of 3 confirmed"))
	assert.True(t, errors.Is(wrapped, errSessionFull))
	assert.True(t, errors.Is(fmt.Errorf("book: %w", wrapped), errSessionFull))

	withFields := errSessionFull.WithFields(map[string]string{"session_id": "required"})
	assert.True(t, errors.Is(withFields, errSessionFull))
	assert.Nil(t, errSessionFull.Fields)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCapacity, KindOf(fmt.Errorf("outer: %w", errSessionFull)))
	assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
	assert.Equal(t, KindValidation, KindOf(Validation("rating is required")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := New(KindNotFound, "caregiver not found").Wrap(errors.New("record not found"))
	assert.Equal(t, "caregiver not found: record not found", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "record not found")
}
