package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const reservationColumns = `id, user_id, workspace_id, booking_date, start_min, end_min,
	status, purpose, notes, created_at, updated_at`

// slotLockTimeout bounds how long a writer waits for a slot lock before the
// request surfaces a retryable conflict instead of hanging.
const slotLockTimeout = "3s"

// ReservationRepository handles reservation data access. The validated-write
// path runs through InSlotLock so the overlap scan and the insert/update
// commit atomically per (workspace, date) slot.
type ReservationRepository struct {
	db *DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// GetForUser retrieves a reservation by ID scoped to its owner. A record
// owned by a different user scans the same as a missing one.
func (r *ReservationRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 AND user_id = $2`

	reservation, err := scanReservation(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return reservation, nil
}

// ListByUser retrieves all reservations owned by a user
func (r *ReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE user_id = $1 ORDER BY booking_date, start_min`

	return r.list(ctx, r.db.Pool, query, userID)
}

// ListUserOverlapping retrieves the user's active reservations on the date
// overlapping [start, end).
func (r *ReservationRepository) ListUserOverlapping(ctx context.Context, userID uuid.UUID, date domain.Date, start, end domain.TimeOfDay) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE user_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_min < $4
		  AND end_min > $3
		ORDER BY start_min`

	return r.list(ctx, r.db.Pool, query, userID, date, start, end)
}

// SetStatus updates a reservation's status
func (r *ReservationRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	query := `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteForUser removes a reservation owned by the user, reporting whether
// a record was deleted.
func (r *ReservationRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM reservations WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reservation: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// InSlotLock runs fn inside a repeatable-read transaction holding the
// advisory lock for (workspaceID, date). Two writers targeting overlapping
// ranges on the same slot serialize here, closing the check-then-act race
// between the overlap scan and the write. Lock waits are bounded; a timed
// out acquisition or a serialization failure surfaces as the retryable
// domain.ErrConflict.
func (r *ReservationRepository) InSlotLock(ctx context.Context, workspaceID uuid.UUID, date domain.Date, fn func(tx domain.SlotTx) error) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", slotLockTimeout)); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	lockKey := workspaceID.String() + "@" + date.String()
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return mapLockErr(err)
	}

	if err := fn(&slotTx{tx: tx, repo: r}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapLockErr(err)
	}

	return nil
}

// mapLockErr translates lock-wait timeouts (55P03) and serialization
// failures (40001) into the retryable conflict sentinel.
func mapLockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "55P03" || pgErr.Code == "40001" {
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Code)
		}
	}
	return fmt.Errorf("slot transaction failed: %w", err)
}

// slotTx exposes reservation writes and the same-day scan on the locked
// transaction.
type slotTx struct {
	tx   pgx.Tx
	repo *ReservationRepository
}

func (s *slotTx) Workspace(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	workspace, err := scanWorkspace(s.tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return workspace, nil
}

func (s *slotTx) ActiveForWorkspaceDay(ctx context.Context, workspaceID uuid.UUID, date domain.Date) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE workspace_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY created_at, id`

	return s.repo.list(ctx, s.tx, query, workspaceID, date)
}

func (s *slotTx) Insert(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, workspace_id, booking_date, start_min, end_min,
			status, purpose, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.tx.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.WorkspaceID,
		reservation.BookingDate,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.Purpose,
		reservation.Notes,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	return nil
}

func (s *slotTx) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET workspace_id = $2, booking_date = $3, start_min = $4, end_min = $5,
		    status = $6, purpose = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := s.tx.Exec(ctx, query,
		reservation.ID,
		reservation.WorkspaceID,
		reservation.BookingDate,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.Purpose,
		reservation.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *ReservationRepository) list(ctx context.Context, q querier, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, *reservation)
	}

	return reservations, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.WorkspaceID,
		&reservation.BookingDate,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Status,
		&reservation.Purpose,
		&reservation.Notes,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &reservation, nil
}
