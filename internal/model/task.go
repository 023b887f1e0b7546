package model

import (
	"errors"
	"fmt"
)

// Status is the urgency marker shown on a task's status indicator.
type Status string

// Task status constants. StatusNormal is the default for new tasks.
const (
	StatusNormal Status = "normal"
	StatusHigh   Status = "high"
	StatusHold   Status = "hold"
)

// ErrInvalidStatus is returned when a status string is not one of the
// known Status values.
var ErrInvalidStatus = errors.New("invalid task status")

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusHigh, StatusNormal, StatusHold}

// ParseStatus converts a raw string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNormal, StatusHigh, StatusHold:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Label returns the human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusHigh:
		return "High"
	case StatusHold:
		return "On Hold"
	default:
		return "Normal"
	}
}

// Task is a single work item owned by exactly one List.
type Task struct {
	// ID is the two-character identifier shared with the list namespace.
	ID string `json:"id" db:"id"`

	// ListID is the owning list. Deleting the list deletes the task.
	ListID string `json:"list_id" db:"list_id"`

	// Description is the main task text.
	Description string `json:"task" db:"description"`

	// Resolution is the free-form note describing how the task was resolved.
	Resolution string `json:"resolution" db:"resolution"`

	// Status is one of the Status constants.
	Status Status `json:"status" db:"status"`

	// Position ranks the task among tasks sharing its ListID.
	Position int `json:"position" db:"position"`
}
