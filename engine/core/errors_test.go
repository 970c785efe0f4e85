package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordError(t *testing.T) {
	err := &RecordError{Path: "cube.obj", Line: 12, Tag: "f", Reason: "index 9 out of range", Err: ErrMalformedRecord}
	assert.Equal(t, "cube.obj:12: malformed record in 'f': index 9 out of range", err.Error())

	wrapped := fmt.Errorf("load: %w", err)
	assert.ErrorIs(t, wrapped, ErrMalformedRecord)
	assert.False(t, errors.Is(wrapped, ErrUnknownMaterial))

	var recErr *RecordError
	assert.ErrorAs(t, wrapped, &recErr)
	assert.Equal(t, 12, recErr.Line)

	untagged := &RecordError{Path: "a.mtl", Line: 3, Reason: "line too long", Err: ErrMalformedRecord}
	assert.Equal(t, "a.mtl:3: malformed record: line too long", untagged.Error())
}
