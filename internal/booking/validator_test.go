package booking

import (
	"testing"
	"time"

	"github.com/deskbook/deskbook/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func availableWorkspace() *domain.Workspace {
	return &domain.Workspace{
		ID:     uuid.New(),
		Name:   "Desk A1",
		Type:   domain.WorkspaceTypeDesk,
		Status: domain.WorkspaceAvailable,
	}
}

func candidateAt(t *testing.T, ws *domain.Workspace, date, start, end string) Candidate {
	t.Helper()
	return Candidate{
		WorkspaceID: ws.ID,
		Date:        mustDate(t, date),
		Start:       mustTime(t, start),
		End:         mustTime(t, end),
	}
}

func activeReservation(t *testing.T, ws *domain.Workspace, date, start, end string) domain.Reservation {
	t.Helper()
	return domain.Reservation{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WorkspaceID: ws.ID,
		BookingDate: mustDate(t, date),
		StartTime:   mustTime(t, start),
		EndTime:     mustTime(t, end),
		Status:      domain.ReservationConfirmed,
	}
}

func fieldsOf(verr *domain.ValidationError) map[string][]string {
	if verr == nil {
		return nil
	}
	return verr.FieldErrors()
}

func TestValidate_Admissible(t *testing.T) {
	ws := availableWorkspace()

	// Scenario A: free workspace, future date, inside business hours.
	c := candidateAt(t, ws, "2099-01-01", "09:00", "10:00")
	verr := Validate(c, ws, nil, testNow)
	assert.Nil(t, verr)

	t.Run("business hour boundaries are inclusive", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "08:00", "22:00")
		assert.Nil(t, Validate(c, ws, nil, testNow))
	})

	t.Run("today is not in the past", func(t *testing.T) {
		c := candidateAt(t, ws, "2025-06-02", "14:00", "15:00")
		assert.Nil(t, Validate(c, ws, nil, testNow))
	})

	t.Run("half-open ranges may touch", func(t *testing.T) {
		existing := []domain.Reservation{activeReservation(t, ws, "2099-01-01", "09:00", "10:00")}

		before := candidateAt(t, ws, "2099-01-01", "08:00", "09:00")
		assert.Nil(t, Validate(before, ws, existing, testNow))

		after := candidateAt(t, ws, "2099-01-01", "10:00", "11:00")
		assert.Nil(t, Validate(after, ws, existing, testNow))
	})
}

func TestValidate_SlotConflict(t *testing.T) {
	ws := availableWorkspace()
	existing := activeReservation(t, ws, "2099-01-01", "09:00", "10:00")

	// Scenario B: overlapping candidate is rejected and the message names
	// the conflicting slot.
	c := candidateAt(t, ws, "2099-01-01", "09:30", "10:30")
	verr := Validate(c, ws, []domain.Reservation{existing}, testNow)
	require.NotNil(t, verr)

	fields := fieldsOf(verr)
	require.Len(t, fields["start_time"], 1)
	assert.Contains(t, fields["start_time"][0], "09:00-10:00")

	require.Len(t, verr.Violations, 1)
	v := verr.Violations[0]
	assert.Equal(t, domain.ViolationSlotTaken, v.Kind)
	require.NotNil(t, v.Conflict)
	assert.Equal(t, existing.ID, v.Conflict.ReservationID)
	assert.Equal(t, existing.StartTime, v.Conflict.StartTime)
	assert.Equal(t, existing.EndTime, v.Conflict.EndTime)

	t.Run("only the first conflicting record is reported", func(t *testing.T) {
		second := activeReservation(t, ws, "2099-01-01", "10:00", "11:00")
		wide := candidateAt(t, ws, "2099-01-01", "09:30", "11:30")

		verr := Validate(wide, ws, []domain.Reservation{existing, second}, testNow)
		require.NotNil(t, verr)
		require.Len(t, verr.Violations, 1)
		assert.Equal(t, existing.ID, verr.Violations[0].Conflict.ReservationID)
	})

	t.Run("reported even for an unordered range", func(t *testing.T) {
		wide := activeReservation(t, ws, "2099-01-01", "08:00", "11:00")
		inverted := candidateAt(t, ws, "2099-01-01", "10:00", "09:00")

		verr := Validate(inverted, ws, []domain.Reservation{wide}, testNow)
		require.NotNil(t, verr)

		fields := fieldsOf(verr)
		assert.Len(t, fields["end_time"], 1)
		require.Len(t, fields["start_time"], 1)
		assert.Contains(t, fields["start_time"][0], "08:00-11:00")
	})

	t.Run("own record is excluded on update", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "09:30", "10:30")
		c.ID = existing.ID
		assert.Nil(t, Validate(c, ws, []domain.Reservation{existing}, testNow))
	})
}

func TestValidate_BusinessHours(t *testing.T) {
	ws := availableWorkspace()

	// Scenario C: slot starts before opening.
	c := candidateAt(t, ws, "2099-01-01", "07:00", "09:00")
	verr := Validate(c, ws, nil, testNow)
	require.NotNil(t, verr)

	fields := fieldsOf(verr)
	require.Len(t, fields["start_time"], 1)
	assert.Empty(t, fields["end_time"])
	assert.Equal(t, domain.ViolationOutsideHours, verr.Violations[0].Kind)

	t.Run("slot past closing", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "21:00", "23:00")
		verr := Validate(c, ws, nil, testNow)
		require.NotNil(t, verr)
		assert.Len(t, fieldsOf(verr)["start_time"], 1)
	})

	t.Run("skipped when range is unordered", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "10:00", "09:00")
		verr := Validate(c, ws, nil, testNow)
		require.NotNil(t, verr)

		fields := fieldsOf(verr)
		assert.Len(t, fields["end_time"], 1)
		assert.Empty(t, fields["start_time"])
	})

	t.Run("zero-length range is rejected", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "09:00", "09:00")
		verr := Validate(c, ws, nil, testNow)
		require.NotNil(t, verr)
		assert.Len(t, fieldsOf(verr)["end_time"], 1)
	})
}

func TestValidate_WorkspaceStatus(t *testing.T) {
	// Scenario D: maintenance workspace rejects regardless of time validity.
	ws := availableWorkspace()
	ws.Status = domain.WorkspaceMaintenance

	c := candidateAt(t, ws, "2099-01-01", "09:00", "10:00")
	verr := Validate(c, ws, nil, testNow)
	require.NotNil(t, verr)

	require.Len(t, verr.Violations, 1)
	assert.Equal(t, domain.ViolationWorkspaceClosed, verr.Violations[0].Kind)
	assert.Equal(t, "workspace", verr.Violations[0].Field)

	t.Run("dangling workspace reference", func(t *testing.T) {
		c := candidateAt(t, ws, "2099-01-01", "09:00", "10:00")
		verr := Validate(c, nil, nil, testNow)
		require.NotNil(t, verr)
		assert.Len(t, fieldsOf(verr)["workspace"], 1)
	})
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	// Scenario E: yesterday plus an out-of-hours slot reports both
	// violations together.
	ws := availableWorkspace()
	c := candidateAt(t, ws, "2025-06-01", "07:00", "09:00")

	verr := Validate(c, ws, nil, testNow)
	require.NotNil(t, verr)

	fields := fieldsOf(verr)
	assert.Len(t, fields["booking_date"], 1)
	assert.Len(t, fields["start_time"], 1)
	assert.Len(t, verr.Violations, 2)

	t.Run("unavailable workspace stacks too", func(t *testing.T) {
		closed := availableWorkspace()
		closed.Status = domain.WorkspaceUnavailable

		c := candidateAt(t, closed, "2025-06-01", "07:00", "06:00")
		verr := Validate(c, closed, nil, testNow)
		require.NotNil(t, verr)

		fields := fieldsOf(verr)
		assert.Len(t, fields["booking_date"], 1)
		assert.Len(t, fields["end_time"], 1)
		assert.Len(t, fields["workspace"], 1)
	})
}

func TestValidate_AdmissionBounds(t *testing.T) {
	// Any admitted candidate satisfies 08:00 <= start < end <= 22:00 and
	// date >= today.
	ws := availableWorkspace()
	cases := []struct {
		date       string
		start, end string
	}{
		{"2025-06-01", "09:00", "10:00"},
		{"2099-01-01", "07:59", "09:00"},
		{"2099-01-01", "21:00", "22:01"},
		{"2099-01-01", "10:00", "10:00"},
		{"2099-01-01", "11:00", "10:00"},
	}

	for _, tc := range cases {
		c := candidateAt(t, ws, tc.date, tc.start, tc.end)
		verr := Validate(c, ws, nil, testNow)
		assert.NotNil(t, verr, "candidate %s %s-%s should be rejected", tc.date, tc.start, tc.end)
	}
}
