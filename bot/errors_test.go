package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetchErrorWrapsSentinel(t *testing.T) {
	cause := errors.New("yt-dlp exited with status 1")
	err := NewFetchError(42, "https://youtu.be/abc", cause)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)

	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, int64(42), entryErr.UserID)
	assert.Equal(t, "https://youtu.be/abc", entryErr.URL)
	assert.Contains(t, err.Error(), "user 42")
}

func TestNewFetchErrorNilCause(t *testing.T) {
	err := NewFetchError(1, "u", nil)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestNewFetchErrorDoesNotDoubleWrap(t *testing.T) {
	inner := NewFetchError(1, "u", nil)
	err := NewFetchError(1, "u", inner)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 1, countFetchFailed(err), "sentinel should appear once in the message")
}

func TestNewDeliveryError(t *testing.T) {
	cause := errors.New("request entity too large")
	err := NewDeliveryError(7, "https://youtu.be/x", cause)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrFetchFailed))
}

func countFetchFailed(err error) int {
	return strings.Count(err.Error(), ErrFetchFailed.Error())
}
