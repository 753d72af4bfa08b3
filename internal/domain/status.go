package domain

import "strings"

// Status represents the lifecycle state of an issue as bd reports it.
type Status string

const (
	StatusOpen       Status = "open"        // Created, nobody working on it
	StatusInProgress Status = "in_progress" // Claimed and being worked on
	StatusBlocked    Status = "blocked"     // Explicitly marked as blocked
	StatusClosed     Status = "closed"      // Done (close reason holds why)
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusOpen,
		StatusInProgress,
		StatusBlocked,
		StatusClosed,
	}
}

// ParseStatus normalizes user input into a Status.
// Accepts "in-progress" as an alias for "in_progress".
func ParseStatus(s string) (Status, error) {
	normalized := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !normalized.IsValid() {
		return "", ErrInvalidStatus
	}
	return normalized, nil
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusClosed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// IsWorkable returns true if an issue in this status can show up as ready work.
// Blocked and closed issues never do.
func (s Status) IsWorkable() bool {
	return s == StatusOpen || s == StatusInProgress
}
