package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workspace type constants
const (
	WorkspaceTypeDesk    = "desk"
	WorkspaceTypeMeeting = "meeting"
	WorkspaceTypeBooth   = "booth"
	WorkspaceTypePod     = "pod"
)

// Workspace status constants
const (
	WorkspaceAvailable   = "available"
	WorkspaceMaintenance = "maintenance"
	WorkspaceUnavailable = "unavailable"
)

// Geometry places a workspace on the floor-plan. Only rectangles exist
// today; Shape is kept so other kinds can be added without a schema change.
type Geometry struct {
	Shape  string  `json:"shape"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Workspace represents a bookable physical resource on the floor-plan.
// Name and FloorplanID are globally unique. HourlyRateCents keeps money
// as integer cents.
type Workspace struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	FloorplanID     string    `json:"floorplan_id"`
	Location        string    `json:"location"`
	Capacity        int       `json:"capacity"`
	Type            string    `json:"workspace_type"`
	Description     string    `json:"description"`
	Geometry        Geometry  `json:"geometry"`
	Status          string    `json:"status"`
	Amenities       []string  `json:"amenities"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsBookable reports whether reservations may be admitted against the
// workspace.
func (w *Workspace) IsBookable() bool {
	return w.Status == WorkspaceAvailable
}

// WorkspaceCreate represents catalog administration input for a new
// workspace.
type WorkspaceCreate struct {
	Name            string   `json:"name" validate:"required,max=100"`
	FloorplanID     string   `json:"floorplan_id" validate:"required,max=100"`
	Location        string   `json:"location" validate:"max=255"`
	Capacity        int      `json:"capacity" validate:"required,gt=0"`
	Type            string   `json:"workspace_type" validate:"required,oneof=desk meeting booth pod"`
	Description     string   `json:"description"`
	Geometry        Geometry `json:"geometry"`
	Status          string   `json:"status" validate:"omitempty,oneof=available maintenance unavailable"`
	Amenities       []string `json:"amenities"`
	HourlyRateCents int64    `json:"hourly_rate_cents" validate:"gte=0"`
}

// WorkspaceUpdate represents a partial catalog update. Nil fields are left
// untouched.
type WorkspaceUpdate struct {
	Location        *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Capacity        *int      `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Description     *string   `json:"description,omitempty"`
	Geometry        *Geometry `json:"geometry,omitempty"`
	Status          *string   `json:"status,omitempty" validate:"omitempty,oneof=available maintenance unavailable"`
	Amenities       []string  `json:"amenities,omitempty"`
	HourlyRateCents *int64    `json:"hourly_rate_cents,omitempty" validate:"omitempty,gte=0"`
}

// WorkspaceRepository defines the interface for the workspace catalog
type WorkspaceRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListAll(ctx context.Context) ([]Workspace, error)
	ListAvailable(ctx context.Context) ([]Workspace, error)
	// ListFreeForSlot returns workspaces with no pending/confirmed
	// reservation on date overlapping [start, end).
	ListFreeForSlot(ctx context.Context, date Date, start, end TimeOfDay) ([]Workspace, error)
	Create(ctx context.Context, workspace *Workspace) error
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) (*Workspace, error)
}
