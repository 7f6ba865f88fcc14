package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// MsgCheckOutAfterCheckIn rejects an empty or inverted stay.
const MsgCheckOutAfterCheckIn = "La date de départ doit être après la date d'arrivée"

// ValidationError reports a booking rejected before any remote call.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Validate checks the hard invariants of a booking. Guest count against
// room capacity is advisory and is not checked here.
func (in BookingInsert) Validate() error {
	if strings.TrimSpace(in.FamilyMember) == "" {
		return invalid("family_member", "Veuillez sélectionner un membre de la famille")
	}
	if len(in.Rooms) == 0 {
		return invalid("rooms", "Veuillez sélectionner au moins une chambre")
	}
	seen := make(map[string]struct{}, len(in.Rooms))
	for _, r := range in.Rooms {
		if strings.TrimSpace(r.Name) == "" {
			return invalid("rooms", "Nom de chambre manquant")
		}
		if _, dup := seen[r.Name]; dup {
			return invalid("rooms", fmt.Sprintf("Chambre sélectionnée en double : %s", r.Name))
		}
		seen[r.Name] = struct{}{}
		if !r.Config.Valid() {
			return invalid("rooms", fmt.Sprintf("Configuration de lit inconnue : %s", r.Config))
		}
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return invalid("check_in", "Les dates d'arrivée et de départ sont obligatoires")
	}
	if !in.CheckOut.After(in.CheckIn) {
		return invalid("check_out", MsgCheckOutAfterCheckIn)
	}
	if in.GuestCount <= 0 {
		return invalid("guest_count", "Le nombre de personnes doit être positif")
	}
	return nil
}

// Normalized trims the occupant name and turns blank notes into no notes.
func (in BookingInsert) Normalized() BookingInsert {
	in.FamilyMember = strings.TrimSpace(in.FamilyMember)
	if in.Notes != nil && strings.TrimSpace(*in.Notes) == "" {
		in.Notes = nil
	}
	return in
}
