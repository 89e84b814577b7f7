// Package domain defines the records, value types and error taxonomy shared
// across the service. Sentinel errors let handlers map business outcomes to
// HTTP responses without string matching.
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the requesting user. Ownership checks fold into not-found so the API never
// leaks the existence of other users' records.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when the slot lock or transactional commit fails
// because of a concurrent writer. The operation is safe to retry once.
var ErrConflict = errors.New("conflict: concurrent booking in progress")

// ErrPreconditionFailed is returned when an update or cancel targets a
// reservation that is past or in a terminal status.
var ErrPreconditionFailed = errors.New("reservation can no longer be modified")

// ViolationKind enumerates the booking rules a candidate can break.
type ViolationKind string

const (
	ViolationDateInPast       ViolationKind = "date_in_past"
	ViolationEndNotAfterStart ViolationKind = "end_not_after_start"
	ViolationOutsideHours     ViolationKind = "outside_business_hours"
	ViolationWorkspaceClosed  ViolationKind = "workspace_unavailable"
	ViolationSlotTaken        ViolationKind = "slot_taken"
)

// SlotRef identifies the reservation a candidate collides with.
type SlotRef struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	StartTime     TimeOfDay `json:"start_time"`
	EndTime       TimeOfDay `json:"end_time"`
}

// Violation is one broken rule, tagged with its kind and the form field it
// belongs to. Conflict is set only for ViolationSlotTaken.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Field    string        `json:"field"`
	Message  string        `json:"message"`
	Conflict *SlotRef      `json:"conflict,omitempty"`
}

// ValidationError carries every rule broken by a candidate reservation.
// All checks run before it is returned, so the caller can display the full
// set at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FieldErrors returns the wire representation: field name to the list of
// human-readable messages for that field.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}
