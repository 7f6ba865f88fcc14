package export

import (
	"fmt"
	"strings"
	"time"

	"chalet-booking/internal/models"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//chalet-booking//Séjours au chalet//FR"

// ICS renders the bookings as all-day events. DTEND is the check-out day,
// which iCalendar treats as exclusive, like the booking itself.
func ICS(bookings []models.Booking, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Chalet")

	for _, b := range bookings {
		ev := cal.AddEvent(b.ID + "@chalet-booking")
		ev.SetDtStampTime(stamp)
		if !b.CreatedAt.IsZero() {
			ev.SetCreatedTime(b.CreatedAt)
		}
		if !b.UpdatedAt.IsZero() {
			ev.SetModifiedAt(b.UpdatedAt)
		}
		ev.SetAllDayStartAt(b.CheckIn.Time())
		ev.SetAllDayEndAt(b.CheckOut.Time())
		ev.SetSummary(fmt.Sprintf("%s (%d pers.)", b.FamilyMember, b.GuestCount))
		ev.SetLocation(strings.Join(b.Rooms.Names(), ", "))

		desc := "Chambres: " + roomConfigs(b)
		if n := notes(b); n != "" {
			desc += "\nNotes: " + n
		}
		ev.SetDescription(desc)
	}

	return cal.Serialize()
}
