package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	err := Wrap(ParseError("bad row", nil), "upload failed")
	assert.True(t, IsParseError(err))
	assert.Equal(t, "upload failed: bad row", err.Error())

	plain := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestIsCode_ThroughStdWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", ColumnNotFound("revenue"))
	assert.True(t, IsColumnNotFound(err))
	assert.False(t, IsEmptyQuestion(err))
	assert.Equal(t, "handler: column 'revenue' not found", err.Error())
}

func TestEmptyQuestion(t *testing.T) {
	err := EmptyQuestion()
	assert.Equal(t, "Please enter a question.", err.Error())
	assert.True(t, IsEmptyQuestion(err))
}
