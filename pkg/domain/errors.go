package domain

import "errors"

// ErrMalformedPayload is returned when the branch count, labels and text blocks of a payload disagree.
var ErrMalformedPayload = errors.New("malformed dialogue payload")

// ErrReentrant is returned when a conversation is started while another one is still running.
var ErrReentrant = errors.New("dialogue already in progress")

// ErrOutOfRangeSelection signals that the selection cursor pointed outside the available options
// when a branch was confirmed. It is an internal invariant violation and is never returned to callers.
var ErrOutOfRangeSelection = errors.New("selection out of range")

// ErrScriptNotFound is returned when a named conversation cannot be found by a loader.
var ErrScriptNotFound = errors.New("script not found")
