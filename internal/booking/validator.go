// Package booking holds the conflict-resolution rules: admissibility of a
// candidate reservation against business hours, workspace status and
// existing reservations, plus the upcoming/past partition of a user's
// bookings. Everything here is pure; the current time is always an explicit
// parameter so behavior is deterministic under test.
package booking

import (
	"fmt"
	"time"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
)

// Business hours: bookings must lie within [08:00, 22:00], both bounds
// inclusive.
const (
	BusinessOpen  = domain.TimeOfDay(8 * 60)
	BusinessClose = domain.TimeOfDay(22 * 60)
)

// Candidate is the slice of a reservation the validator rules on. ID is the
// candidate's own reservation id on update, so its prior record is excluded
// from the overlap scan; it is the zero UUID on create.
type Candidate struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Date        domain.Date
	Start       domain.TimeOfDay
	End         domain.TimeOfDay
}

// Validate decides admissibility of a candidate given the referenced
// workspace (nil if the reference is dangling), the active reservations on
// the same workspace and date in store order, and the current time. It
// returns nil when the candidate is admissible, otherwise a ValidationError
// carrying every broken rule: all checks run, nothing short-circuits on the
// first failure.
func Validate(c Candidate, workspace *domain.Workspace, sameDay []domain.Reservation, now time.Time) *domain.ValidationError {
	var violations []domain.Violation

	today := domain.DateOf(now)
	if c.Date.Before(today) {
		violations = append(violations, domain.Violation{
			Kind:    domain.ViolationDateInPast,
			Field:   "booking_date",
			Message: "Booking date cannot be in the past.",
		})
	}

	ordered := c.End > c.Start
	if !ordered {
		violations = append(violations, domain.Violation{
			Kind:    domain.ViolationEndNotAfterStart,
			Field:   "end_time",
			Message: "End time must be after start time.",
		})
	}

	// Business-hours check only makes sense for an ordered range.
	if ordered && (c.Start < BusinessOpen || c.End > BusinessClose) {
		violations = append(violations, domain.Violation{
			Kind:  domain.ViolationOutsideHours,
			Field: "start_time",
			Message: fmt.Sprintf("Bookings are only possible between %s and %s.",
				BusinessOpen, BusinessClose),
		})
	}

	if workspace == nil || !workspace.IsBookable() {
		violations = append(violations, domain.Violation{
			Kind:    domain.ViolationWorkspaceClosed,
			Field:   "workspace",
			Message: "This workspace is not available for booking.",
		})
	}

	// Overlap scan: only the first colliding record is reported, in store
	// order. Cancelled/completed records never reach sameDay. Unlike the
	// business-hours check, the scan does not require an ordered range.
	for i := range sameDay {
		other := &sameDay[i]
		if other.ID == c.ID {
			continue
		}
		if !other.Overlaps(c.Start, c.End) {
			continue
		}
		violations = append(violations, domain.Violation{
			Kind:  domain.ViolationSlotTaken,
			Field: "start_time",
			Message: fmt.Sprintf("This slot overlaps an existing booking (%s-%s).",
				other.StartTime, other.EndTime),
			Conflict: &domain.SlotRef{
				ReservationID: other.ID,
				StartTime:     other.StartTime,
				EndTime:       other.EndTime,
			},
		})
		break
	}

	if len(violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: violations}
}
