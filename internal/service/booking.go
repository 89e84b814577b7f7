package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deskbook/deskbook/internal/booking"
	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BookingService runs the validated-write path for reservations. Validation
// is inseparable from the write: every insert/update happens inside the slot
// lock, after all rules pass against the state visible in that transaction.
type BookingService struct {
	reservations domain.ReservationRepository
	slots        domain.SlotLocker
	now          func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(reservations domain.ReservationRepository, slots domain.SlotLocker) *BookingService {
	return &BookingService{
		reservations: reservations,
		slots:        slots,
		now:          time.Now,
	}
}

// Create validates and persists a candidate reservation. On success the
// reservation is admitted directly as confirmed. On rule failure the
// returned error is a *domain.ValidationError carrying every violation.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, input domain.ReservationCreate) (*domain.Reservation, error) {
	now := s.now()
	reservation := &domain.Reservation{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: input.WorkspaceID,
		BookingDate: input.BookingDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      domain.ReservationConfirmed,
		Purpose:     input.Purpose,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.slots.InSlotLock(ctx, input.WorkspaceID, input.BookingDate, func(tx domain.SlotTx) error {
		if err := s.validateInTx(ctx, tx, reservation, now); err != nil {
			return err
		}
		return tx.Insert(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_id", reservation.ID.String()).
		Str("workspace_id", reservation.WorkspaceID.String()).
		Str("date", reservation.BookingDate.String()).
		Msg("reservation created")

	return reservation, nil
}

// Update applies a partial patch to an existing reservation through the same
// validation path, excluding the reservation's own prior record from the
// overlap scan. Patching a reservation that is past or terminal fails with
// ErrPreconditionFailed before any validation runs.
func (s *BookingService) Update(ctx context.Context, id, userID uuid.UUID, patch domain.ReservationUpdate) (*domain.Reservation, error) {
	now := s.now()

	reservation, err := s.reservations.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, domain.ErrNotFound
	}
	if !reservation.CanBeModified(now) {
		return nil, domain.ErrPreconditionFailed
	}

	applyPatch(reservation, patch)
	reservation.Status = domain.ReservationConfirmed
	reservation.UpdatedAt = now

	err = s.slots.InSlotLock(ctx, reservation.WorkspaceID, reservation.BookingDate, func(tx domain.SlotTx) error {
		if err := s.validateInTx(ctx, tx, reservation, now); err != nil {
			return err
		}
		return tx.Update(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// Cancel transitions a reservation to cancelled. The transition is one-way
// and gated on CanBeModified: a past, cancelled or completed reservation is
// left untouched and the caller gets ErrPreconditionFailed.
func (s *BookingService) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	now := s.now()

	reservation, err := s.reservations.GetForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return domain.ErrNotFound
	}
	if !reservation.CanBeModified(now) {
		return domain.ErrPreconditionFailed
	}

	if err := s.reservations.SetStatus(ctx, id, domain.ReservationCancelled); err != nil {
		return err
	}

	log.Info().Str("reservation_id", id.String()).Msg("reservation cancelled")
	return nil
}

// Delete removes a reservation owned by the user
func (s *BookingService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	deleted, err := s.reservations.DeleteForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Get retrieves a single reservation owned by the user
func (s *BookingService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, domain.ErrNotFound
	}
	return reservation, nil
}

// ListForUser returns the user's reservations partitioned into upcoming and
// past relative to the current moment.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) (*domain.ReservationList, error) {
	reservations, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	list := booking.Partition(reservations, s.now())
	return &list, nil
}

// validateInTx runs the conflict validator against the workspace and the
// same-day active reservations visible inside the locked transaction.
func (s *BookingService) validateInTx(ctx context.Context, tx domain.SlotTx, reservation *domain.Reservation, now time.Time) error {
	workspace, err := tx.Workspace(ctx, reservation.WorkspaceID)
	if err != nil {
		return err
	}

	sameDay, err := tx.ActiveForWorkspaceDay(ctx, reservation.WorkspaceID, reservation.BookingDate)
	if err != nil {
		return err
	}

	candidate := booking.Candidate{
		ID:          reservation.ID,
		WorkspaceID: reservation.WorkspaceID,
		Date:        reservation.BookingDate,
		Start:       reservation.StartTime,
		End:         reservation.EndTime,
	}

	if verr := booking.Validate(candidate, workspace, sameDay, now); verr != nil {
		return verr
	}
	return nil
}

func applyPatch(r *domain.Reservation, patch domain.ReservationUpdate) {
	if patch.WorkspaceID != nil {
		r.WorkspaceID = *patch.WorkspaceID
	}
	if patch.BookingDate != nil {
		r.BookingDate = *patch.BookingDate
	}
	if patch.StartTime != nil {
		r.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		r.EndTime = *patch.EndTime
	}
	if patch.Purpose != nil {
		r.Purpose = *patch.Purpose
	}
	if patch.Notes != nil {
		r.Notes = *patch.Notes
	}
}
