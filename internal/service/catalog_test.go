package service

import (
	"context"
	"testing"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) Get(ctx context.Context, workspaceID uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockCatalogCache) Set(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockCatalogCache) Invalidate(ctx context.Context, workspaceID uuid.UUID) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}

func TestCatalogGet(t *testing.T) {
	ctx := context.Background()
	ws := bookableWorkspace()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		cache := new(MockCatalogCache)
		cache.On("Get", ctx, ws.ID).Return(ws, nil)

		repo := new(MockWorkspaceRepository)
		svc := NewCatalogService(repo, new(MockReservationRepository), cache)

		got, err := svc.Get(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, ws.ID, got.ID)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls through and populates", func(t *testing.T) {
		cache := new(MockCatalogCache)
		cache.On("Get", ctx, ws.ID).Return(nil, nil)
		cache.On("Set", ctx, ws).Return(nil)

		repo := new(MockWorkspaceRepository)
		repo.On("Get", ctx, ws.ID).Return(ws, nil)

		svc := NewCatalogService(repo, new(MockReservationRepository), cache)
		got, err := svc.Get(ctx, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, ws.ID, got.ID)
		cache.AssertExpectations(t)
	})

	t.Run("unknown workspace", func(t *testing.T) {
		id := uuid.New()
		cache := new(MockCatalogCache)
		cache.On("Get", ctx, id).Return(nil, nil)

		repo := new(MockWorkspaceRepository)
		repo.On("Get", ctx, id).Return(nil, nil)

		svc := NewCatalogService(repo, new(MockReservationRepository), cache)
		_, err := svc.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCatalogFloorPlan(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	day := date(t, "2025-06-10")
	start, end := clock(t, "09:00"), clock(t, "11:00")

	free := *bookableWorkspace()
	taken := *bookableWorkspace()
	closed := *bookableWorkspace()
	closed.Status = domain.WorkspaceMaintenance
	mine := *bookableWorkspace()

	all := []domain.Workspace{free, taken, closed, mine}

	// closed has no overlapping reservation, so the slot query reports it
	// free; its status still makes it unbookable.
	repo := new(MockWorkspaceRepository)
	repo.On("ListAll", ctx).Return(all, nil)
	repo.On("ListFreeForSlot", ctx, day, start, end).
		Return([]domain.Workspace{free, closed}, nil)

	ownBooking := domain.Reservation{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: mine.ID,
		BookingDate: day,
		StartTime:   start,
		EndTime:     end,
		Status:      domain.ReservationConfirmed,
	}
	reservations := new(MockReservationRepository)
	reservations.On("ListUserOverlapping", ctx, userID, day, start, end).
		Return([]domain.Reservation{ownBooking}, nil)

	svc := NewCatalogService(repo, reservations, nil)
	entries, err := svc.FloorPlan(ctx, userID, day, start, end)
	require.NoError(t, err)
	require.Len(t, entries, len(all))

	byID := make(map[uuid.UUID]FloorPlanEntry, len(entries))
	for _, e := range entries {
		byID[e.Workspace.ID] = e
	}

	assert.True(t, byID[free.ID].Bookable)
	assert.False(t, byID[taken.ID].Bookable)
	assert.False(t, byID[closed.ID].Bookable)

	require.NotNil(t, byID[mine.ID].OwnBookingID)
	assert.Equal(t, ownBooking.ID, *byID[mine.ID].OwnBookingID)
	assert.Nil(t, byID[free.ID].OwnBookingID)
}

func TestCatalogCreateDefaults(t *testing.T) {
	ctx := context.Background()

	repo := new(MockWorkspaceRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Workspace")).Return(nil)

	svc := NewCatalogService(repo, new(MockReservationRepository), nil)
	ws, err := svc.Create(ctx, domain.WorkspaceCreate{
		Name:        "Booth 7",
		FloorplanID: "booth-7",
		Type:        domain.WorkspaceTypeBooth,
		Capacity:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkspaceAvailable, ws.Status)
	assert.Equal(t, "rectangle", ws.Geometry.Shape)
	assert.NotEqual(t, uuid.Nil, ws.ID)
}

func TestCatalogUpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	ws := bookableWorkspace()

	status := domain.WorkspaceMaintenance
	update := domain.WorkspaceUpdate{Status: &status}

	repo := new(MockWorkspaceRepository)
	repo.On("Update", ctx, ws.ID, &update).Return(ws, nil)

	cache := new(MockCatalogCache)
	cache.On("Invalidate", ctx, ws.ID).Return(nil)

	svc := NewCatalogService(repo, new(MockReservationRepository), cache)
	got, err := svc.Update(ctx, ws.ID, update)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)
	cache.AssertExpectations(t)
}
