package schedule

import (
	"time"

	"chalet-booking/internal/models"
)

// Day is one cell of the month grid.
type Day struct {
	Date     models.Date      `json:"date"`
	InMonth  bool             `json:"in_month"`
	IsToday  bool             `json:"is_today"`
	Bookings []models.Booking `json:"bookings"`
}

// BarPlacement positions a stay as a horizontal bar over the columns of a
// week. Columns run 0 (Monday) to 7; the bar covers [StartCol, EndCol).
type BarPlacement struct {
	BookingID    string `json:"booking_id"`
	FamilyMember string `json:"family_member"`
	StartCol     int    `json:"start_col"`
	EndCol       int    `json:"end_col"`
	Span         int    `json:"span"`
	Slot         int    `json:"slot"`
	// RoundLeft is set when the stay starts this week, RoundRight when it
	// ends this week. A square edge means the stay continues.
	RoundLeft  bool `json:"round_left"`
	RoundRight bool `json:"round_right"`
	ShowLabel  bool `json:"show_label"`
}

type Week struct {
	Days [7]Day         `json:"days"`
	Bars []BarPlacement `json:"bars"`
}

type MonthGrid struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	Weeks       []Week     `json:"weeks"`
	HasBookings bool       `json:"has_bookings"`
}

// MonthRange returns the first and last displayed day for a month: the
// Monday on or before the 1st and the Sunday on or after the last day.
func MonthRange(year int, month time.Month) (models.Date, models.Date) {
	first := models.NewDate(year, month, 1)
	last := first.AddDays(daysIn(year, month) - 1)

	start := first.AddDays(-mondayIndex(first))
	end := last.AddDays(6 - mondayIndex(last))
	return start, end
}

// BuildMonthGrid lays out a month as complete Monday-first weeks. today only
// drives the IsToday flag.
func BuildMonthGrid(year int, month time.Month, bookings []models.Booking, today models.Date) MonthGrid {
	start, end := MonthRange(year, month)
	grid := MonthGrid{Year: year, Month: month}

	for weekStart := start; !weekStart.After(end); weekStart = weekStart.AddDays(7) {
		var week Week
		var dates [7]models.Date
		for i := 0; i < 7; i++ {
			d := weekStart.AddDays(i)
			dates[i] = d
			week.Days[i] = Day{
				Date:     d,
				InMonth:  d.Month() == month && d.Year() == year,
				IsToday:  d.Equal(today),
				Bookings: bookingsOn(d, bookings),
			}
		}
		week.Bars = LayoutWeek(dates, bookings)
		grid.Weeks = append(grid.Weeks, week)
	}

	monthStart := models.NewDate(year, month, 1)
	monthEnd := monthStart.AddDays(daysIn(year, month))
	grid.HasBookings = len(BookingsInRange(monthStart, monthEnd, bookings)) > 0
	return grid
}

// LayoutWeek computes one bar per booking occupying at least one day of the
// week. Slots are handed out in first-seen order scanning the days left to
// right, bookings in input order within a day.
func LayoutWeek(week [7]models.Date, bookings []models.Booking) []BarPlacement {
	var bars []BarPlacement
	seen := make(map[int]struct{})

	for _, day := range week {
		for i, b := range bookings {
			if _, ok := seen[i]; ok {
				continue
			}
			if !Occupies(b, day) {
				continue
			}
			seen[i] = struct{}{}

			bar := placeBar(b, week)
			bar.Slot = len(bars)
			bars = append(bars, bar)
		}
	}
	return bars
}

func placeBar(b models.Booking, week [7]models.Date) BarPlacement {
	startCol, startsHere := columnOf(b.CheckIn, week)
	endCol, endsHere := columnOf(b.CheckOut, week)
	if !startsHere {
		startCol = 0
	}
	if !endsHere {
		endCol = 7
	}
	return BarPlacement{
		BookingID:    b.ID,
		FamilyMember: b.FamilyMember,
		StartCol:     startCol,
		EndCol:       endCol,
		Span:         endCol - startCol,
		RoundLeft:    startsHere,
		RoundRight:   endsHere,
		ShowLabel:    startsHere,
	}
}

func columnOf(d models.Date, week [7]models.Date) (int, bool) {
	for i, day := range week {
		if day.Equal(d) {
			return i, true
		}
	}
	return 0, false
}

func bookingsOn(day models.Date, bookings []models.Booking) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if Occupies(b, day) {
			out = append(out, b)
		}
	}
	return out
}

// mondayIndex is the column of d in a Monday-first week.
func mondayIndex(d models.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
