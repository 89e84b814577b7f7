package service

import (
	"context"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListUserOverlapping(ctx context.Context, userID uuid.UUID, date domain.Date, start, end domain.TimeOfDay) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, date, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

type MockSlotTx struct {
	mock.Mock
}

func (m *MockSlotTx) Workspace(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockSlotTx) ActiveForWorkspaceDay(ctx context.Context, workspaceID uuid.UUID, date domain.Date) ([]domain.Reservation, error) {
	args := m.Called(ctx, workspaceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockSlotTx) Insert(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockSlotTx) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

// stubSlotLocker runs fn against the given tx without real locking. When err
// is set the lock acquisition itself fails.
type stubSlotLocker struct {
	tx    domain.SlotTx
	err   error
	calls int
}

func (s *stubSlotLocker) InSlotLock(ctx context.Context, workspaceID uuid.UUID, date domain.Date, fn func(tx domain.SlotTx) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(s.tx)
}

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListAll(ctx context.Context) ([]domain.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListAvailable(ctx context.Context) ([]domain.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListFreeForSlot(ctx context.Context, date domain.Date, start, end domain.TimeOfDay) ([]domain.Workspace, error) {
	args := m.Called(ctx, date, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) (*domain.Workspace, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}
