package bot

import (
	"errors"
	"fmt"
)

// Errors surfaced by the search, queue and delivery flow. Check them with errors.Is.
var (
	// ErrEmptyResults is returned when a search yields nothing.
	ErrEmptyResults = errors.New("bot: empty search results")

	// ErrNoActiveSession is returned when pagination or selection finds no session.
	ErrNoActiveSession = errors.New("bot: no active session")

	// ErrUnsupportedPlatform is returned when a link resolves to an unknown platform.
	ErrUnsupportedPlatform = errors.New("bot: unsupported platform")

	// ErrUnsupportedLink is returned when a queued URL is outside the supported domains.
	ErrUnsupportedLink = errors.New("bot: unsupported link")

	// ErrFetchFailed is returned when no audio file could be produced.
	ErrFetchFailed = errors.New("bot: fetch failed")

	// ErrDeliveryFailed is returned when the audio attachment could not be sent.
	ErrDeliveryFailed = errors.New("bot: delivery failed")

	// ErrTransport marks a failed send, edit or delete call.
	ErrTransport = errors.New("bot: transport failure")
)

// EntryError attaches the user and URL of a queue entry to an error.
type EntryError struct {
	UserID int64
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("user %d: %s: %v", e.UserID, e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps cause as a fetch failure for the given entry.
func NewFetchError(userID int64, url string, cause error) error {
	if cause == nil {
		cause = ErrFetchFailed
	} else if !errors.Is(cause, ErrFetchFailed) {
		cause = fmt.Errorf("%w: %w", ErrFetchFailed, cause)
	}
	return &EntryError{UserID: userID, URL: url, Err: cause}
}

// NewDeliveryError wraps cause as a delivery failure for the given entry.
func NewDeliveryError(userID int64, url string, cause error) error {
	if cause == nil {
		cause = ErrDeliveryFailed
	} else if !errors.Is(cause, ErrDeliveryFailed) {
		cause = fmt.Errorf("%w: %w", ErrDeliveryFailed, cause)
	}
	return &EntryError{UserID: userID, URL: url, Err: cause}
}
