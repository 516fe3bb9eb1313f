package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateID is returned when a notification with the same id is
	// already present in the store.
	ErrDuplicateID = errors.New("notification id already exists")

	// ErrNotFound is returned when a notification does not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrInvalidTransition is returned when a lifecycle mutation does not
	// follow the state machine. The notification is left unchanged.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrIngest is returned when a raw inbound notification fails
	// validation before it reaches the store.
	ErrIngest = errors.New("invalid inbound notification")

	// ErrSendFailed is returned when the reply collaborator could not send
	// a message. The source notification is left unchanged.
	ErrSendFailed = errors.New("reply send failed")

	// ErrEmptyReply is returned for a reply action whose trimmed text is
	// empty.
	ErrEmptyReply = errors.New("reply text is empty")

	// ErrUnknownAction is returned when a custom action id is not declared
	// on the notification.
	ErrUnknownAction = errors.New("unknown notification action")

	// ErrNoMigrationNeeded signals that a settings record is already at the
	// current schema version. Not a failure.
	ErrNoMigrationNeeded = errors.New("settings already at current version")

	// ErrNoSnapshot is returned when no settings snapshot exists for a user.
	ErrNoSnapshot = errors.New("no settings snapshot found")
)

// ValidationError reports the settings fields that failed validation. A
// failed validation blocks the write entirely; the prior valid settings
// remain authoritative.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings validation failed: %s", strings.Join(e.Fields, ", "))
}

// MigrationError reports a failed settings migration step. The prior record
// is left untouched; callers fall back to defaults.
type MigrationError struct {
	FromVersion int
	Reason      string
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("settings migration from version %d failed: %s", e.FromVersion, e.Reason)
}
