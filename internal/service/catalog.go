package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FloorPlanEntry pairs a workspace with its availability for a queried slot
// and, when the requester already holds an overlapping booking on it, that
// booking's id so the UI can offer editing instead of booking.
type FloorPlanEntry struct {
	Workspace    domain.Workspace `json:"workspace"`
	Bookable     bool             `json:"bookable"`
	OwnBookingID *uuid.UUID       `json:"own_booking_id,omitempty"`
}

// CatalogCache is the cache surface the catalog service needs.
type CatalogCache interface {
	Get(ctx context.Context, workspaceID uuid.UUID) (*domain.Workspace, error)
	Set(ctx context.Context, workspace *domain.Workspace) error
	Invalidate(ctx context.Context, workspaceID uuid.UUID) error
}

// CatalogService handles workspace catalog reads and administrative
// mutation. Reads go through the cache; mutation invalidates it.
type CatalogService struct {
	workspaces   domain.WorkspaceRepository
	reservations domain.ReservationRepository
	cache        CatalogCache
}

// NewCatalogService creates a new catalog service
func NewCatalogService(workspaces domain.WorkspaceRepository, reservations domain.ReservationRepository, cache CatalogCache) *CatalogService {
	return &CatalogService{
		workspaces:   workspaces,
		reservations: reservations,
		cache:        cache,
	}
}

// Get retrieves a workspace by ID
func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	workspace, err := s.workspaces.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, workspace); err != nil {
			log.Warn().Err(err).Msg("failed to cache workspace")
		}
	}

	return workspace, nil
}

// ListAll returns the full catalog ordered by type then name
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Workspace, error) {
	return s.workspaces.ListAll(ctx)
}

// ListAvailable returns workspaces whose status admits bookings
func (s *CatalogService) ListAvailable(ctx context.Context) ([]domain.Workspace, error) {
	return s.workspaces.ListAvailable(ctx)
}

// ListFreeForSlot returns workspaces with no active reservation overlapping
// [start, end) on the date.
func (s *CatalogService) ListFreeForSlot(ctx context.Context, date domain.Date, start, end domain.TimeOfDay) ([]domain.Workspace, error) {
	return s.workspaces.ListFreeForSlot(ctx, date, start, end)
}

// FloorPlan returns every workspace with its geometry, whether it can be
// booked for the queried slot, and the requester's own overlapping booking
// id if one exists.
func (s *CatalogService) FloorPlan(ctx context.Context, userID uuid.UUID, date domain.Date, start, end domain.TimeOfDay) ([]FloorPlanEntry, error) {
	all, err := s.workspaces.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	free, err := s.workspaces.ListFreeForSlot(ctx, date, start, end)
	if err != nil {
		return nil, err
	}
	freeSet := make(map[uuid.UUID]struct{}, len(free))
	for _, w := range free {
		freeSet[w.ID] = struct{}{}
	}

	own, err := s.reservations.ListUserOverlapping(ctx, userID, date, start, end)
	if err != nil {
		return nil, err
	}
	ownByWorkspace := make(map[uuid.UUID]uuid.UUID, len(own))
	for _, r := range own {
		ownByWorkspace[r.WorkspaceID] = r.ID
	}

	entries := make([]FloorPlanEntry, 0, len(all))
	for _, w := range all {
		_, slotFree := freeSet[w.ID]
		entry := FloorPlanEntry{
			Workspace: w,
			Bookable:  slotFree && w.IsBookable(),
		}
		if bookingID, ok := ownByWorkspace[w.ID]; ok {
			id := bookingID
			entry.OwnBookingID = &id
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Create adds a workspace to the catalog (administration)
func (s *CatalogService) Create(ctx context.Context, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()

	status := input.Status
	if status == "" {
		status = domain.WorkspaceAvailable
	}
	geometry := input.Geometry
	if geometry.Shape == "" {
		geometry.Shape = "rectangle"
	}

	workspace := &domain.Workspace{
		ID:              uuid.New(),
		Name:            input.Name,
		FloorplanID:     input.FloorplanID,
		Location:        input.Location,
		Capacity:        input.Capacity,
		Type:            input.Type,
		Description:     input.Description,
		Geometry:        geometry,
		Status:          status,
		Amenities:       input.Amenities,
		HourlyRateCents: input.HourlyRateCents,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, err
	}

	return workspace, nil
}

// Update applies an administrative patch and invalidates the cache entry
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, update domain.WorkspaceUpdate) (*domain.Workspace, error) {
	workspace, err := s.workspaces.Update(ctx, id, &update)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate workspace cache")
		}
	}

	return workspace, nil
}
