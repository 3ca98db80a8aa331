package trackerr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	err := IOFailure("open", "/home/u/.track", os.ErrNotExist)

	assert.Equal(t, CodeIOFailure, err.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "/home/u/.track", err.Details["path"])
	assert.Contains(t, err.Error(), "failed to open data file - /home/u/.track")
}

func TestIsThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("track: %w", IllegalArgument("sleep"))

	assert.True(t, Is(wrapped, CodeInvalidArgument))
	assert.False(t, Is(wrapped, CodeIOFailure))
	assert.Equal(t, CodeInvalidArgument, GetCode(wrapped))
}

func TestGetCodeForeignError(t *testing.T) {
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
	assert.Equal(t, Code(""), GetCode(nil))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(MissingArgument()))
	assert.Equal(t, 1, ExitCode(errors.New("anything")))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "illegal argument - sleep", IllegalArgument("sleep").Error())
	assert.Equal(t, "missing required positional argument", MissingArgument().Error())
}
