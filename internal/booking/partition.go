package booking

import (
	"sort"
	"time"

	"github.com/deskbook/deskbook/internal/domain"
)

// IsUpcoming reports whether a reservation belongs to the upcoming bucket:
// still pending or confirmed, and ending today-or-later relative to now.
// Everything else is past. The two predicates are exact complements, so
// Partition never drops or duplicates a record.
func IsUpcoming(r *domain.Reservation, now time.Time) bool {
	if !r.IsActive() {
		return false
	}
	today := domain.DateOf(now)
	if r.BookingDate.After(today) {
		return true
	}
	return r.BookingDate.Equal(today) && r.EndTime >= domain.TimeOfDayOf(now)
}

// Partition splits a user's reservations into upcoming (ascending by date
// then start time) and past (descending), relative to now.
func Partition(reservations []domain.Reservation, now time.Time) domain.ReservationList {
	list := domain.ReservationList{
		Upcoming: []domain.Reservation{},
		Past:     []domain.Reservation{},
	}
	for _, r := range reservations {
		if IsUpcoming(&r, now) {
			list.Upcoming = append(list.Upcoming, r)
		} else {
			list.Past = append(list.Past, r)
		}
	}

	sort.SliceStable(list.Upcoming, func(i, j int) bool {
		return slotLess(&list.Upcoming[i], &list.Upcoming[j])
	})
	sort.SliceStable(list.Past, func(i, j int) bool {
		return slotLess(&list.Past[j], &list.Past[i])
	})

	return list
}

func slotLess(a, b *domain.Reservation) bool {
	if !a.BookingDate.Equal(b.BookingDate) {
		return a.BookingDate.Before(b.BookingDate)
	}
	return a.StartTime < b.StartTime
}
