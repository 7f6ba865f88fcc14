// Package export renders the upcoming bookings for sharing outside the app:
// a CSV sheet, a plain-text summary meant for the clipboard, an XLSX
// workbook and an iCalendar feed.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chalet-booking/internal/models"
	"chalet-booking/internal/schedule"
)

// Header is the column order shared by the CSV and XLSX exports.
var Header = []string{
	"Arrivée",
	"Départ",
	"Nuits",
	"Famille",
	"Personnes",
	"Chambres",
	"Configuration",
	"Notes",
}

const dayLayout = "02/01/2006"

var shortMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// Filename is the download name of an export produced on day.
func Filename(day models.Date, ext string) string {
	return fmt.Sprintf("sejours-chalet-%s.%s", day, ext)
}

// shortDate formats a day the French way, e.g. "5 janv.".
func shortDate(d models.Date) string {
	return fmt.Sprintf("%d %s", d.Day(), shortMonths[d.Month()-1])
}

func roomConfigs(b models.Booking) string {
	parts := make([]string, len(b.Rooms))
	for i, r := range b.Rooms {
		parts[i] = r.Name + ": " + r.Config.Label()
	}
	return strings.Join(parts, "; ")
}

func notes(b models.Booking) string {
	if b.Notes == nil {
		return ""
	}
	return *b.Notes
}

// row is one booking in Header order.
func row(b models.Booking) []string {
	return []string{
		b.CheckIn.Time().Format(dayLayout),
		b.CheckOut.Time().Format(dayLayout),
		strconv.Itoa(schedule.Nights(b)),
		b.FamilyMember,
		strconv.Itoa(b.GuestCount),
		strings.Join(b.Rooms.Names(), ", "),
		roomConfigs(b),
		notes(b),
	}
}

// WriteCSV writes the header and one record per booking.
func WriteCSV(w io.Writer, bookings []models.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range bookings {
		if err := cw.Write(row(b)); err != nil {
			return fmt.Errorf("write csv row %s: %w", b.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Text is the summary copied to the clipboard, one block per booking.
func Text(bookings []models.Booking) string {
	blocks := make([]string, 0, len(bookings))
	for _, b := range bookings {
		rooms := make([]string, len(b.Rooms))
		for i, r := range b.Rooms {
			rooms[i] = fmt.Sprintf("%s (%s)", r.Name, r.Config.Label())
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s → %s (%dn)\n", shortDate(b.CheckIn), shortDate(b.CheckOut), schedule.Nights(b))
		fmt.Fprintf(&sb, "%s · %d pers.\n", b.FamilyMember, b.GuestCount)
		fmt.Fprintf(&sb, "Chambres: %s", strings.Join(rooms, ", "))
		if n := notes(b); n != "" {
			fmt.Fprintf(&sb, "\nNotes: %s", n)
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
