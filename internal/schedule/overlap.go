// Package schedule derives views from a snapshot of bookings: date-range
// overlap, room conflicts and the month calendar layout. Everything here is
// pure; callers pass the booking list and, where needed, today's date.
package schedule

import (
	"sort"

	"chalet-booking/internal/models"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one day. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd models.Date) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Occupies reports whether the occupant sleeps at the house on day.
// The check-out day is excluded: the guest leaves that morning.
func Occupies(b models.Booking, day models.Date) bool {
	return !day.Before(b.CheckIn) && day.Before(b.CheckOut)
}

// Nights is the number of nights of the stay.
func Nights(b models.Booking) int {
	return b.CheckIn.DaysUntil(b.CheckOut)
}

// IsOngoing reports whether the stay covers today.
func IsOngoing(b models.Booking, today models.Date) bool {
	return Occupies(b, today)
}

// BookingsInRange returns the bookings overlapping [start, end), in input order.
func BookingsInRange(start, end models.Date, bookings []models.Booking) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if Overlaps(b.CheckIn, b.CheckOut, start, end) {
			out = append(out, b)
		}
	}
	return out
}

// Upcoming returns the bookings not yet finished (check-out on or after
// today), ordered by check-in.
func Upcoming(today models.Date, bookings []models.Booking) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if !b.CheckOut.Before(today) {
			out = append(out, b)
		}
	}
	SortByCheckIn(out)
	return out
}

// SortByCheckIn orders bookings by check-in ascending, keeping the relative
// order of bookings that start the same day.
func SortByCheckIn(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CheckIn.Before(bookings[j].CheckIn)
	})
}
