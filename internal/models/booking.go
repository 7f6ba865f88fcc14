package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BedConfig is the bed layout chosen for a room.
type BedConfig string

const (
	BedKing          BedConfig = "king"
	BedTwoSingles    BedConfig = "2_singles"
	BedThreeSingles  BedConfig = "3_singles"
	BedTwoSinglesFix BedConfig = "2_singles_fixed"
)

func (c BedConfig) Valid() bool {
	switch c {
	case BedKing, BedTwoSingles, BedThreeSingles, BedTwoSinglesFix:
		return true
	}
	return false
}

// Label is the human-readable name shown in listings and exports.
func (c BedConfig) Label() string {
	switch c {
	case BedKing:
		return "Lit King"
	case BedTwoSingles, BedTwoSinglesFix:
		return "2 Simples"
	case BedThreeSingles:
		return "3 Simples"
	default:
		return string(c)
	}
}

type RoomSelection struct {
	Name   string    `json:"name"`
	Config BedConfig `json:"config"`
}

// RoomSelections is stored as a JSONB array.
type RoomSelections []RoomSelection

func (r RoomSelections) Names() []string {
	names := make([]string, len(r))
	for i, sel := range r {
		names[i] = sel.Name
	}
	return names
}

func (r RoomSelections) Value() (driver.Value, error) {
	if r == nil {
		r = RoomSelections{}
	}
	return json.Marshal(r)
}

func (r *RoomSelections) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = RoomSelections{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RoomSelections", src)
	}
	return json.Unmarshal(data, r)
}

type Booking struct {
	ID           string         `json:"id"`
	FamilyMember string         `json:"family_member"`
	CheckIn      Date           `json:"check_in"`
	CheckOut     Date           `json:"check_out"`
	GuestCount   int            `json:"guest_count"`
	Notes        *string        `json:"notes"`
	Rooms        RoomSelections `json:"rooms"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Insert returns the writable part of the booking.
func (b Booking) Insert() BookingInsert {
	return BookingInsert{
		FamilyMember: b.FamilyMember,
		CheckIn:      b.CheckIn,
		CheckOut:     b.CheckOut,
		GuestCount:   b.GuestCount,
		Notes:        b.Notes,
		Rooms:        b.Rooms,
	}
}

// BookingInsert holds the fields a client may write when creating a booking.
type BookingInsert struct {
	FamilyMember string         `json:"family_member"`
	CheckIn      Date           `json:"check_in"`
	CheckOut     Date           `json:"check_out"`
	GuestCount   int            `json:"guest_count"`
	Notes        *string        `json:"notes,omitempty"`
	Rooms        RoomSelections `json:"rooms"`
}

// BookingPatch is a partial update; nil fields keep their stored value.
type BookingPatch struct {
	FamilyMember *string        `json:"family_member,omitempty"`
	CheckIn      *Date          `json:"check_in,omitempty"`
	CheckOut     *Date          `json:"check_out,omitempty"`
	GuestCount   *int           `json:"guest_count,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	Rooms        RoomSelections `json:"rooms,omitempty"`
}

// Apply merges the patch over an existing booking.
func (p BookingPatch) Apply(b Booking) BookingInsert {
	in := b.Insert()
	if p.FamilyMember != nil {
		in.FamilyMember = *p.FamilyMember
	}
	if p.CheckIn != nil {
		in.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		in.CheckOut = *p.CheckOut
	}
	if p.GuestCount != nil {
		in.GuestCount = *p.GuestCount
	}
	if p.Notes != nil {
		if *p.Notes == "" {
			in.Notes = nil
		} else {
			in.Notes = p.Notes
		}
	}
	if p.Rooms != nil {
		in.Rooms = p.Rooms
	}
	return in
}
