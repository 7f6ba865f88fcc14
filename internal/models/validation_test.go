package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInsert() BookingInsert {
	return BookingInsert{
		FamilyMember: "Axel",
		CheckIn:      NewDate(2026, time.January, 10),
		CheckOut:     NewDate(2026, time.January, 13),
		GuestCount:   2,
		Rooms:        RoomSelections{{Name: "La Suite", Config: BedKing}},
	}
}

func TestBookingInsert_Validate(t *testing.T) {
	require.NoError(t, validInsert().Validate())

	tests := []struct {
		name   string
		mutate func(*BookingInsert)
		field  string
	}{
		{"missing occupant", func(in *BookingInsert) { in.FamilyMember = "  " }, "family_member"},
		{"no rooms", func(in *BookingInsert) { in.Rooms = nil }, "rooms"},
		{"duplicate room", func(in *BookingInsert) {
			in.Rooms = append(in.Rooms, RoomSelection{Name: "La Suite", Config: BedKing})
		}, "rooms"},
		{"unknown config", func(in *BookingInsert) { in.Rooms[0].Config = "bunk" }, "rooms"},
		{"checkout equals checkin", func(in *BookingInsert) { in.CheckOut = in.CheckIn }, "check_out"},
		{"checkout before checkin", func(in *BookingInsert) { in.CheckOut = in.CheckIn.AddDays(-1) }, "check_out"},
		{"missing dates", func(in *BookingInsert) { in.CheckIn = Date{} }, "check_in"},
		{"zero guests", func(in *BookingInsert) { in.GuestCount = 0 }, "guest_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInsert()
			in.Rooms = append(RoomSelections{}, in.Rooms...)
			tt.mutate(&in)

			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBookingPatch_Apply(t *testing.T) {
	notes := "Marie + 2 amies"
	b := Booking{
		ID:           "b1",
		FamilyMember: "Axel",
		CheckIn:      NewDate(2026, time.January, 10),
		CheckOut:     NewDate(2026, time.January, 13),
		GuestCount:   2,
		Notes:        &notes,
		Rooms:        RoomSelections{{Name: "La Suite", Config: BedKing}},
	}

	out := NewDate(2026, time.January, 15)
	empty := ""
	in := BookingPatch{CheckOut: &out, Notes: &empty}.Apply(b)

	assert.Equal(t, "Axel", in.FamilyMember)
	assert.Equal(t, b.CheckIn, in.CheckIn)
	assert.Equal(t, out, in.CheckOut)
	assert.Nil(t, in.Notes)
	assert.Equal(t, b.Rooms, in.Rooms)
}

func TestBedConfig_Label(t *testing.T) {
	assert.Equal(t, "Lit King", BedKing.Label())
	assert.Equal(t, "2 Simples", BedTwoSingles.Label())
	assert.Equal(t, "2 Simples", BedTwoSinglesFix.Label())
	assert.Equal(t, "3 Simples", BedThreeSingles.Label())
	assert.Equal(t, "bunk", BedConfig("bunk").Label())
	assert.False(t, BedConfig("bunk").Valid())
}

func TestBookingInsert_Normalized(t *testing.T) {
	blank := "   "
	in := validInsert()
	in.FamilyMember = " Axel "
	in.Notes = &blank

	out := in.Normalized()
	assert.Equal(t, "Axel", out.FamilyMember)
	assert.Nil(t, out.Notes)
	assert.Equal(t, " Axel ", in.FamilyMember, "receiver is not modified")
}
