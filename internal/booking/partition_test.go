package booking

import (
	"testing"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservationWith(t *testing.T, date, start, end string, status domain.ReservationStatus) domain.Reservation {
	t.Helper()
	return domain.Reservation{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WorkspaceID: uuid.New(),
		BookingDate: mustDate(t, date),
		StartTime:   mustTime(t, start),
		EndTime:     mustTime(t, end),
		Status:      status,
	}
}

func TestIsUpcoming(t *testing.T) {
	// testNow is 2025-06-02 12:30.
	cases := []struct {
		name     string
		date     string
		end      string
		status   domain.ReservationStatus
		upcoming bool
	}{
		{"future date", "2025-06-03", "10:00", domain.ReservationConfirmed, true},
		{"today, ends later", "2025-06-02", "14:00", domain.ReservationConfirmed, true},
		{"today, ends exactly now", "2025-06-02", "12:30", domain.ReservationPending, true},
		{"today, already ended", "2025-06-02", "12:00", domain.ReservationConfirmed, false},
		{"past date", "2025-06-01", "14:00", domain.ReservationConfirmed, false},
		{"cancelled future", "2025-06-03", "10:00", domain.ReservationCancelled, false},
		{"completed future", "2025-06-03", "10:00", domain.ReservationCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reservationWith(t, tc.date, "09:00", tc.end, tc.status)
			assert.Equal(t, tc.upcoming, IsUpcoming(&r, testNow))
		})
	}
}

func TestPartition_Exhaustive(t *testing.T) {
	// Every reservation lands in exactly one bucket, whatever its status and
	// timing.
	dates := []string{"2025-06-01", "2025-06-02", "2025-06-03"}
	ends := []string{"12:00", "12:30", "15:00"}
	statuses := []domain.ReservationStatus{
		domain.ReservationPending,
		domain.ReservationConfirmed,
		domain.ReservationCancelled,
		domain.ReservationCompleted,
	}

	var all []domain.Reservation
	for _, d := range dates {
		for _, e := range ends {
			for _, s := range statuses {
				all = append(all, reservationWith(t, d, "09:00", e, s))
			}
		}
	}

	list := Partition(all, testNow)
	assert.Len(t, list.Upcoming, len(all)-len(list.Past))

	seen := make(map[uuid.UUID]int, len(all))
	for _, r := range list.Upcoming {
		seen[r.ID]++
		assert.True(t, IsUpcoming(&r, testNow))
	}
	for _, r := range list.Past {
		seen[r.ID]++
		assert.False(t, IsUpcoming(&r, testNow))
	}
	require.Len(t, seen, len(all))
	for id, n := range seen {
		assert.Equal(t, 1, n, "reservation %s appears %d times", id, n)
	}
}

func TestPartition_Ordering(t *testing.T) {
	all := []domain.Reservation{
		reservationWith(t, "2025-06-05", "09:00", "10:00", domain.ReservationConfirmed),
		reservationWith(t, "2025-06-03", "14:00", "15:00", domain.ReservationConfirmed),
		reservationWith(t, "2025-06-03", "09:00", "10:00", domain.ReservationPending),
		reservationWith(t, "2025-05-30", "09:00", "10:00", domain.ReservationCompleted),
		reservationWith(t, "2025-06-01", "09:00", "10:00", domain.ReservationConfirmed),
		reservationWith(t, "2025-06-01", "16:00", "17:00", domain.ReservationCancelled),
	}

	list := Partition(all, testNow)

	require.Len(t, list.Upcoming, 3)
	for i := 1; i < len(list.Upcoming); i++ {
		assert.True(t, slotLess(&list.Upcoming[i-1], &list.Upcoming[i]),
			"upcoming not ascending at %d", i)
	}

	require.Len(t, list.Past, 3)
	for i := 1; i < len(list.Past); i++ {
		assert.True(t, slotLess(&list.Past[i], &list.Past[i-1]),
			"past not descending at %d", i)
	}
}

func TestPartition_Empty(t *testing.T) {
	list := Partition(nil, testNow)
	assert.NotNil(t, list.Upcoming)
	assert.NotNil(t, list.Past)
	assert.Empty(t, list.Upcoming)
	assert.Empty(t, list.Past)
}
