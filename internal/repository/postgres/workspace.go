package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workspaceColumns = `id, name, floorplan_id, location, capacity, workspace_type,
	description, geometry, status, amenities, hourly_rate_cents, created_at, updated_at`

// WorkspaceRepository handles workspace catalog data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts a new workspace into the catalog
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	geometry, err := json.Marshal(workspace.Geometry)
	if err != nil {
		return fmt.Errorf("failed to marshal geometry: %w", err)
	}

	query := `
		INSERT INTO workspaces (id, name, floorplan_id, location, capacity, workspace_type,
			description, geometry, status, amenities, hourly_rate_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		workspace.ID,
		workspace.Name,
		workspace.FloorplanID,
		workspace.Location,
		workspace.Capacity,
		workspace.Type,
		workspace.Description,
		geometry,
		workspace.Status,
		workspace.Amenities,
		workspace.HourlyRateCents,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return nil
}

// Get retrieves a workspace by ID
func (r *WorkspaceRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	workspace, err := scanWorkspace(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return workspace, nil
}

// ListAll retrieves the full catalog ordered by type then name
func (r *WorkspaceRepository) ListAll(ctx context.Context) ([]domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces ORDER BY workspace_type, name`
	return r.list(ctx, query)
}

// ListAvailable retrieves workspaces whose status admits bookings
func (r *WorkspaceRepository) ListAvailable(ctx context.Context) ([]domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces
		WHERE status = $1 ORDER BY workspace_type, name`
	return r.list(ctx, query, domain.WorkspaceAvailable)
}

// ListFreeForSlot retrieves workspaces with no pending/confirmed reservation
// on the date overlapping [start, end).
func (r *WorkspaceRepository) ListFreeForSlot(ctx context.Context, date domain.Date, start, end domain.TimeOfDay) ([]domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces w
		WHERE NOT EXISTS (
			SELECT 1 FROM reservations res
			WHERE res.workspace_id = w.id
			  AND res.booking_date = $1
			  AND res.status IN ('pending', 'confirmed')
			  AND res.start_min < $3
			  AND res.end_min > $2
		)
		ORDER BY w.workspace_type, w.name`
	return r.list(ctx, query, date, start, end)
}

// Update applies a partial patch to a workspace and returns the new record.
// Nil patch fields leave the column untouched.
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) (*domain.Workspace, error) {
	var geometry []byte
	if update.Geometry != nil {
		var err error
		geometry, err = json.Marshal(update.Geometry)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal geometry: %w", err)
		}
	}

	query := `
		UPDATE workspaces
		SET location = COALESCE($2, location),
		    capacity = COALESCE($3, capacity),
		    description = COALESCE($4, description),
		    geometry = COALESCE($5, geometry),
		    status = COALESCE($6, status),
		    amenities = COALESCE($7, amenities),
		    hourly_rate_cents = COALESCE($8, hourly_rate_cents),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + workspaceColumns

	workspace, err := scanWorkspace(r.db.Pool.QueryRow(ctx, query, id,
		update.Location,
		update.Capacity,
		update.Description,
		geometry,
		update.Status,
		update.Amenities,
		update.HourlyRateCents,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return workspace, nil
}

func (r *WorkspaceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, *workspace)
	}

	return workspaces, rows.Err()
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var workspace domain.Workspace
	var geometryJSON []byte

	if err := row.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.FloorplanID,
		&workspace.Location,
		&workspace.Capacity,
		&workspace.Type,
		&workspace.Description,
		&geometryJSON,
		&workspace.Status,
		&workspace.Amenities,
		&workspace.HourlyRateCents,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(geometryJSON) > 0 {
		if err := json.Unmarshal(geometryJSON, &workspace.Geometry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal geometry: %w", err)
		}
	}

	return &workspace, nil
}
