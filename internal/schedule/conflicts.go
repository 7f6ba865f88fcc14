package schedule

import "chalet-booking/internal/models"

// FindConflicts maps each room already taken during [start, end) to the name
// of its occupant. The booking with id excludeID, typically the one being
// edited, is ignored. When two overlapping bookings claim the same room the
// one seen last wins.
func FindConflicts(start, end models.Date, bookings []models.Booking, excludeID string) map[string]string {
	conflicts := make(map[string]string)
	for _, b := range bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !Overlaps(b.CheckIn, b.CheckOut, start, end) {
			continue
		}
		for _, room := range b.Rooms {
			conflicts[room.Name] = b.FamilyMember
		}
	}
	return conflicts
}

// RoomStatus is the availability of one room for a requested range.
type RoomStatus struct {
	Room       models.Room `json:"room"`
	Available  bool        `json:"available"`
	OccupiedBy string      `json:"occupied_by,omitempty"`
}

// RoomAvailability lists every room with its status, in catalog order.
func RoomAvailability(rooms []models.Room, conflicts map[string]string) []RoomStatus {
	out := make([]RoomStatus, 0, len(rooms))
	for _, r := range rooms {
		occupant, taken := conflicts[r.Name]
		out = append(out, RoomStatus{Room: r, Available: !taken, OccupiedBy: occupant})
	}
	return out
}
