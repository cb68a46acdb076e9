// Package usecase error types shared across services. Sentinel values
// let handlers distinguish failure scenarios: a seat conflict maps to
// HTTP 409, an expired hold to 410, stale identifiers to 404.
package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrShowtimeNotFound is returned when the showtime id does not
	// reference an open seat map.
	ErrShowtimeNotFound = errors.New("showtime not found")

	// ErrShowtimeRetired is returned when an operation targets a
	// showtime that has been taken off sale.
	ErrShowtimeRetired = errors.New("showtime retired")

	// ErrHoldNotFound is returned when a hold token references no
	// active hold. Covers holds already released by the TTL sweep.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired is returned when a commit arrives after the
	// hold's TTL elapsed but before the sweep released it.
	ErrHoldExpired = errors.New("hold expired")

	// ErrAlreadyCommitted is returned when a release targets a hold
	// whose seats were already booked. Never silently ignored.
	ErrAlreadyCommitted = errors.New("hold already committed")

	// ErrNotificationNotFound is returned for unknown notification ids.
	ErrNotificationNotFound = errors.New("notification not found")
)

// SeatUnavailableError reports exactly which requested seats were not
// available. The hold is all-or-nothing, so nothing was changed.
type SeatUnavailableError struct {
	Conflicts []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.Conflicts, ", "))
}

// InvalidSettingsError rejects an admin settings update without
// applying any part of it.
type InvalidSettingsError struct {
	Fields map[string]string
}

func (e *InvalidSettingsError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}
