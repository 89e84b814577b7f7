package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the reservation lifecycle state. Pending and
// confirmed reservations occupy their slot; cancelled and completed are
// terminal and kept for history.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Reservation is a time-bounded claim by a user on a workspace.
type Reservation struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	WorkspaceID uuid.UUID         `json:"workspace_id"`
	BookingDate Date              `json:"booking_date"`
	StartTime   TimeOfDay         `json:"start_time"`
	EndTime     TimeOfDay         `json:"end_time"`
	Status      ReservationStatus `json:"status"`
	Purpose     string            `json:"purpose,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// IsActive reports whether the reservation occupies its slot for conflict
// purposes.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}

// Duration returns the booked span in fractional hours.
func (r *Reservation) Duration() float64 {
	return float64(r.EndTime-r.StartTime) / 60.0
}

// IsPast reports whether the reservation's end lies strictly before now.
func (r *Reservation) IsPast(now time.Time) bool {
	return r.BookingDate.At(r.EndTime, now.Location()).Before(now)
}

// CanBeModified reports whether update or cancel operations are permitted:
// the reservation is not past and not in a terminal status.
func (r *Reservation) CanBeModified(now time.Time) bool {
	if r.Status == ReservationCancelled || r.Status == ReservationCompleted {
		return false
	}
	return !r.IsPast(now)
}

// Overlaps reports whether the reservation intersects [start, end) under
// half-open interval semantics.
func (r *Reservation) Overlaps(start, end TimeOfDay) bool {
	return r.StartTime < end && r.EndTime > start
}

// ReservationCreate represents a candidate reservation submitted by a user.
type ReservationCreate struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
	BookingDate Date      `json:"booking_date" validate:"required"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
	Purpose     string    `json:"purpose,omitempty" validate:"max=200"`
	Notes       string    `json:"notes,omitempty" validate:"max=2000"`
}

// ReservationUpdate represents a partial patch to an existing reservation.
// Nil fields are left untouched.
type ReservationUpdate struct {
	WorkspaceID *uuid.UUID `json:"workspace_id,omitempty"`
	BookingDate *Date      `json:"booking_date,omitempty"`
	StartTime   *TimeOfDay `json:"start_time,omitempty"`
	EndTime     *TimeOfDay `json:"end_time,omitempty"`
	Purpose     *string    `json:"purpose,omitempty" validate:"omitempty,max=200"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ReservationList partitions a user's reservations for display.
type ReservationList struct {
	Upcoming []Reservation `json:"upcoming"`
	Past     []Reservation `json:"past"`
}

// ReservationRepository defines the read/mutate surface outside the
// validated-write critical section. Reads are user-scoped: records owned by
// other users are indistinguishable from absent ones.
type ReservationRepository interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
	// ListUserOverlapping returns the user's active reservations on date
	// overlapping [start, end), for floor-plan edit affordances.
	ListUserOverlapping(ctx context.Context, userID uuid.UUID, date Date, start, end TimeOfDay) ([]Reservation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status ReservationStatus) error
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// SlotTx is the storage surface visible inside a slot-locked transaction.
type SlotTx interface {
	Workspace(ctx context.Context, id uuid.UUID) (*Workspace, error)
	// ActiveForWorkspaceDay returns pending/confirmed reservations on the
	// workspace and date in insertion order.
	ActiveForWorkspaceDay(ctx context.Context, workspaceID uuid.UUID, date Date) ([]Reservation, error)
	Insert(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
}

// SlotLocker executes fn inside a transaction holding the lock for
// (workspaceID, date), so the overlap scan and the write commit atomically
// with respect to other writers on the same slot.
type SlotLocker interface {
	InSlotLock(ctx context.Context, workspaceID uuid.UUID, date Date, fn func(tx SlotTx) error) error
}
