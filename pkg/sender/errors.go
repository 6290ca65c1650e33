package sender

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned when there is nothing to send: no groups
	// were populated, or pruning removed everything.
	ErrEmptyMessage = errors.New("sender: message is empty")

	// ErrMissingRecipient is the sentinel matched by MissingRecipientError.
	ErrMissingRecipient = errors.New("sender: message group has no recipient")

	// ErrMissingContent is the sentinel matched by MissingContentError.
	ErrMissingContent = errors.New("sender: message group has no content")

	// ErrNoQueue is returned by Schedule when the session has no queue.
	ErrNoQueue = errors.New("sender: no queue configured")
)

// MissingRecipientError reports a group with payloads but no recipient.
type MissingRecipientError struct {
	Index int
}

func (e *MissingRecipientError) Error() string {
	return fmt.Sprintf("sender: group %d has no recipient", e.Index)
}

func (e *MissingRecipientError) Unwrap() error { return ErrMissingRecipient }

// MissingContentError reports a group that holds only a recipient.
type MissingContentError struct {
	Index int
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("sender: group %d has a recipient but no content", e.Index)
}

func (e *MissingContentError) Unwrap() error { return ErrMissingContent }
