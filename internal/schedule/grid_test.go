package schedule

import (
	"testing"
	"time"

	"chalet-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekOf(monday models.Date) [7]models.Date {
	var w [7]models.Date
	for i := range w {
		w[i] = monday.AddDays(i)
	}
	return w
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2026, time.January)
	assert.Equal(t, models.NewDate(2025, time.December, 29), start)
	assert.Equal(t, feb(1), end)

	start, end = MonthRange(2026, time.February)
	assert.Equal(t, jan(26), start)
	assert.Equal(t, models.NewDate(2026, time.March, 1), end)
}

func TestBuildMonthGrid_CompleteWeeks(t *testing.T) {
	for year := 2024; year <= 2027; year++ {
		for month := time.January; month <= time.December; month++ {
			grid := BuildMonthGrid(year, month, nil, models.Date{})
			require.NotEmpty(t, grid.Weeks)

			first := grid.Weeks[0].Days[0].Date
			lastWeek := grid.Weeks[len(grid.Weeks)-1]
			last := lastWeek.Days[6].Date

			assert.Equal(t, time.Monday, first.Weekday(), "%d-%02d", year, month)
			assert.Equal(t, time.Sunday, last.Weekday(), "%d-%02d", year, month)
			assert.True(t, first.Before(models.NewDate(year, month, 1)) || first.Equal(models.NewDate(year, month, 1)))

			inMonth := 0
			prev := first.AddDays(-1)
			for _, w := range grid.Weeks {
				for _, d := range w.Days {
					require.True(t, d.Date.Equal(prev.AddDays(1)), "days must be contiguous")
					prev = d.Date
					if d.InMonth {
						inMonth++
					}
				}
			}
			assert.Equal(t, daysIn(year, month), inMonth)
		}
	}
}

func TestBuildMonthGrid_StayAcrossMonths(t *testing.T) {
	b := booking("x", "Theodore", jan(30), feb(2), "L'Alpage")

	january := BuildMonthGrid(2026, time.January, []models.Booking{b}, models.Date{})
	lastWeek := january.Weeks[len(january.Weeks)-1]
	assert.Len(t, lastWeek.Days[4].Bookings, 1, "Fri Jan 30")
	assert.Len(t, lastWeek.Days[5].Bookings, 1, "Sat Jan 31")
	assert.True(t, january.HasBookings)

	february := BuildMonthGrid(2026, time.February, []models.Booking{b}, models.Date{})
	firstWeek := february.Weeks[0]
	sunday := firstWeek.Days[6]
	assert.Equal(t, feb(1), sunday.Date)
	assert.True(t, sunday.InMonth)
	assert.Len(t, sunday.Bookings, 1)
	assert.Empty(t, february.Weeks[1].Days[0].Bookings, "checkout day is not occupied")
	assert.Empty(t, february.Weeks[1].Bars)
	assert.True(t, february.HasBookings)

	march := BuildMonthGrid(2026, time.March, []models.Booking{b}, models.Date{})
	assert.False(t, march.HasBookings)
}

// A stay leaving on the 1st does not count for that month: the month
// overlap is half-open like every other occupancy check.
func TestBuildMonthGrid_CheckoutOnFirstIsNotInMonth(t *testing.T) {
	b := booking("x", "Hortense", jan(29), feb(1), "Le Balcon")

	january := BuildMonthGrid(2026, time.January, []models.Booking{b}, models.Date{})
	assert.True(t, january.HasBookings)

	february := BuildMonthGrid(2026, time.February, []models.Booking{b}, models.Date{})
	assert.False(t, february.HasBookings)

	sunday := february.Weeks[0].Days[6]
	require.Equal(t, feb(1), sunday.Date)
	assert.Empty(t, sunday.Bookings, "checkout day is not occupied")

	// the spill-over days of the first row still show the stay
	assert.Len(t, february.Weeks[0].Days[3].Bookings, 1, "Thu Jan 29")
	require.Len(t, february.Weeks[0].Bars, 1)
	assert.Equal(t, 3, february.Weeks[0].Bars[0].StartCol)
	assert.Equal(t, 6, february.Weeks[0].Bars[0].EndCol)
}

func TestBuildMonthGrid_Today(t *testing.T) {
	grid := BuildMonthGrid(2026, time.January, nil, jan(14))
	today := 0
	for _, w := range grid.Weeks {
		for _, d := range w.Days {
			if d.IsToday {
				today++
				assert.Equal(t, jan(14), d.Date)
			}
		}
	}
	assert.Equal(t, 1, today)
}

func TestLayoutWeek_StartsAndEndsInWeek(t *testing.T) {
	b := booking("a", "Axel", jan(13), jan(16), "La Suite")
	bars := LayoutWeek(weekOf(jan(12)), []models.Booking{b})

	require.Len(t, bars, 1)
	assert.Equal(t, BarPlacement{
		BookingID: "a", FamilyMember: "Axel",
		StartCol: 1, EndCol: 4, Span: 3, Slot: 0,
		RoundLeft: true, RoundRight: true, ShowLabel: true,
	}, bars[0])
}

func TestLayoutWeek_Continuation(t *testing.T) {
	b := booking("a", "Axel", jan(3), jan(20), "La Suite")

	first := LayoutWeek(weekOf(models.NewDate(2025, time.December, 29)), []models.Booking{b})
	require.Len(t, first, 1)
	assert.Equal(t, 5, first[0].StartCol)
	assert.Equal(t, 7, first[0].EndCol)
	assert.True(t, first[0].RoundLeft)
	assert.False(t, first[0].RoundRight)

	middle := LayoutWeek(weekOf(jan(5)), []models.Booking{b})
	require.Len(t, middle, 1)
	assert.Equal(t, 0, middle[0].StartCol)
	assert.Equal(t, 7, middle[0].Span)
	assert.False(t, middle[0].RoundLeft)
	assert.False(t, middle[0].RoundRight)
	assert.False(t, middle[0].ShowLabel)

	last := LayoutWeek(weekOf(jan(19)), []models.Booking{b})
	require.Len(t, last, 1)
	assert.Equal(t, 0, last[0].StartCol)
	assert.Equal(t, 1, last[0].EndCol)
	assert.False(t, last[0].RoundLeft)
	assert.True(t, last[0].RoundRight)
}

func TestLayoutWeek_CheckoutOnMondayHasNoBar(t *testing.T) {
	b := booking("a", "Axel", jan(9), jan(12), "La Suite")
	assert.Empty(t, LayoutWeek(weekOf(jan(12)), []models.Booking{b}))
}

func TestLayoutWeek_StackingFirstSeen(t *testing.T) {
	late := booking("late", "Adrien", jan(14), jan(16), "Le Balcon")
	early := booking("early", "Hortense", jan(10), jan(13), "Le Refuge")
	sameDay := booking("same", "Clemence", jan(14), jan(15), "Le Cocon")

	bars := LayoutWeek(weekOf(jan(12)), []models.Booking{late, early, sameDay})
	require.Len(t, bars, 3)

	assert.Equal(t, "early", bars[0].BookingID)
	assert.Equal(t, 0, bars[0].Slot)
	assert.Equal(t, "late", bars[1].BookingID)
	assert.Equal(t, 1, bars[1].Slot)
	assert.Equal(t, "same", bars[2].BookingID)
	assert.Equal(t, 2, bars[2].Slot)
}

func TestBuildMonthGrid_Deterministic(t *testing.T) {
	bookings := []models.Booking{
		booking("a", "Axel", jan(3), jan(9), "La Suite"),
		booking("b", "Achille", jan(5), jan(7), "Le Cocon"),
	}
	first := BuildMonthGrid(2026, time.January, bookings, jan(6))
	second := BuildMonthGrid(2026, time.January, bookings, jan(6))
	assert.Equal(t, first, second)
}
