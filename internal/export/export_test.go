package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"chalet-booking/internal/catalog"
	"chalet-booking/internal/models"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []models.Booking {
	note := `les "cousins" arrivent tard`
	return []models.Booking{
		{
			ID:           "b1",
			FamilyMember: "Axel",
			CheckIn:      models.NewDate(2026, time.January, 5),
			CheckOut:     models.NewDate(2026, time.January, 8),
			GuestCount:   4,
			Rooms: models.RoomSelections{
				{Name: "La Suite", Config: models.BedKing},
				{Name: "L'Alpage", Config: models.BedTwoSingles},
			},
			Notes: &note,
		},
		{
			ID:           "b2",
			FamilyMember: "Achille",
			CheckIn:      models.NewDate(2026, time.February, 1),
			CheckOut:     models.NewDate(2026, time.February, 3),
			GuestCount:   3,
			Rooms:        models.RoomSelections{{Name: "Le Refuge", Config: models.BedThreeSingles}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"05/01/2026",
		"08/01/2026",
		"3",
		"Axel",
		"4",
		"La Suite, L'Alpage",
		"La Suite: Lit King; L'Alpage: 2 Simples",
		`les "cousins" arrivent tard`,
	}, records[1])
	assert.Equal(t, "", records[2][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestText(t *testing.T) {
	got := Text(sample())
	want := "5 janv. → 8 janv. (3n)\n" +
		"Axel · 4 pers.\n" +
		"Chambres: La Suite (Lit King), L'Alpage (2 Simples)\n" +
		`Notes: les "cousins" arrivent tard` +
		"\n\n---\n\n" +
		"1 févr. → 3 févr. (2n)\n" +
		"Achille · 3 pers.\n" +
		"Chambres: Le Refuge (3 Simples)"
	assert.Equal(t, want, got)
	assert.Empty(t, Text(nil))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "sejours-chalet-2026-01-02.csv", Filename(models.NewDate(2026, time.January, 2), "csv"))
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sample(), catalog.Default())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Axel", rows[1][3])
	assert.Equal(t, "3", rows[1][2])
	assert.Equal(t, "Le Refuge: 3 Simples", rows[2][6])
}

func TestICS(t *testing.T) {
	stamp := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	body := ICS(sample(), stamp)

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "b1@chalet-booking", first.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Axel (4 pers.)", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "20260105", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20260108", first.GetProperty(ical.ComponentPropertyDtEnd).Value)
}
