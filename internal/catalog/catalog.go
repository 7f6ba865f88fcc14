// Package catalog holds the immutable reference data of the house: rooms,
// floors and the family members allowed to book.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"chalet-booking/internal/models"

	"gopkg.in/yaml.v3"
)

// FallbackColor is used for occupants missing from the member list.
const FallbackColor = "#6B7280"

// Catalog is read-only after construction; share it freely.
type Catalog struct {
	Rooms   []models.Room         `yaml:"rooms" json:"rooms"`
	Floors  []models.Floor        `yaml:"floors" json:"floors"`
	Members []models.FamilyMember `yaml:"members" json:"members"`
}

// Default returns the compiled-in catalog.
func Default() *Catalog {
	return &Catalog{
		Rooms: []models.Room{
			{ID: "etoile", Name: "L'Étoile", Floor: 2, FloorName: "Étage 2", DefaultConfig: models.BedTwoSinglesFix, Description: "2 lits simples", Capacity: 2},
			{ID: "refuge", Name: "Le Refuge", Floor: 2, FloorName: "Étage 2", DefaultConfig: models.BedThreeSingles, Description: "3 lits simples", Capacity: 3},
			{ID: "suite", Name: "La Suite", Floor: 1, FloorName: "Étage 1", DefaultConfig: models.BedKing, Description: "Lit king size (chambre principale)", Capacity: 2},
			{ID: "alpage", Name: "L'Alpage", Floor: 1, FloorName: "Étage 1", DefaultConfig: models.BedKing, Configurable: true, Description: "1 king OU 2 simples", Capacity: 2},
			{ID: "balcon", Name: "Le Balcon", Floor: 1, FloorName: "Étage 1", DefaultConfig: models.BedKing, Configurable: true, Description: "1 king OU 2 simples", Capacity: 2},
			{ID: "cocon", Name: "Le Cocon", Floor: -1, FloorName: "Étage -1", DefaultConfig: models.BedKing, Description: "Lit king size", Capacity: 2},
			{ID: "marmottes", Name: "Les Marmottes", Floor: -1, FloorName: "Étage -1", DefaultConfig: models.BedThreeSingles, Description: "3 lits simples", Capacity: 3},
		},
		Floors: []models.Floor{
			{Level: 2, Name: "Étage 2", Description: "Chambres amis"},
			{Level: 1, Name: "Étage 1", Description: "Chambres principales"},
			{Level: 0, Name: "Rez-de-chaussée", Description: "Salon, cuisine, entrée"},
			{Level: -1, Name: "Étage -1", Description: "Chambres cocooning"},
		},
		Members: []models.FamilyMember{
			{ID: "axel", Name: "Axel", Color: "#2D5016"},
			{ID: "sibling1", Name: "Achille", Color: "#C45B28"},
			{ID: "sibling2", Name: "Theodore", Color: "#1E40AF"},
			{ID: "sibling3", Name: "Anastase", Color: "#7C3AED"},
			{ID: "sibling4", Name: "Adrien", Color: "#DC2626"},
			{ID: "sibling5", Name: "Evangeline", Color: "#A84D22"},
			{ID: "sibling6", Name: "Hortense", Color: "#E56F42"},
			{ID: "sibling7", Name: "Clemence", Color: "#48370B"},
			{ID: "parents", Name: "Eleonore", Color: "#2F2508"},
		},
	}
}

// Load reads a YAML catalog. An empty path or a missing file yields the
// default catalog; sections left empty in the file keep their defaults.
func Load(path string) (*Catalog, error) {
	def := Default()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(c.Rooms) == 0 {
		c.Rooms = def.Rooms
	}
	if len(c.Floors) == 0 {
		c.Floors = def.Floors
	}
	if len(c.Members) == 0 {
		c.Members = def.Members
	}
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

func (c *Catalog) check() error {
	names := make(map[string]struct{}, len(c.Rooms))
	for _, r := range c.Rooms {
		if r.Name == "" {
			return fmt.Errorf("room %q has no name", r.ID)
		}
		if _, dup := names[r.Name]; dup {
			return fmt.Errorf("duplicate room name %q", r.Name)
		}
		names[r.Name] = struct{}{}
		if !r.DefaultConfig.Valid() {
			return fmt.Errorf("room %q: unknown bed config %q", r.Name, r.DefaultConfig)
		}
		if r.Capacity <= 0 {
			return fmt.Errorf("room %q: capacity must be positive", r.Name)
		}
	}
	return nil
}

func (c *Catalog) RoomByName(name string) (models.Room, bool) {
	for _, r := range c.Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return models.Room{}, false
}

func (c *Catalog) RoomByID(id string) (models.Room, bool) {
	for _, r := range c.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

func (c *Catalog) RoomsByFloor(level int) []models.Room {
	var out []models.Room
	for _, r := range c.Rooms {
		if r.Floor == level {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) Member(name string) (models.FamilyMember, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	return models.FamilyMember{}, false
}

func (c *Catalog) MemberColor(name string) string {
	if m, ok := c.Member(name); ok {
		return m.Color
	}
	return FallbackColor
}

// TotalCapacity is the number of beds in the whole house.
func (c *Catalog) TotalCapacity() int {
	total := 0
	for _, r := range c.Rooms {
		total += r.Capacity
	}
	return total
}

// Capacity sums the capacity of the selected rooms; unknown rooms count as zero.
func (c *Catalog) Capacity(rooms models.RoomSelections) int {
	total := 0
	for _, sel := range rooms {
		if r, ok := c.RoomByName(sel.Name); ok {
			total += r.Capacity
		}
	}
	return total
}

// DefaultSelection is the selection made when a room is ticked in the form.
func (c *Catalog) DefaultSelection(name string) (models.RoomSelection, bool) {
	r, ok := c.RoomByName(name)
	if !ok {
		return models.RoomSelection{}, false
	}
	return models.RoomSelection{Name: r.Name, Config: r.DefaultConfig}, true
}

// CheckSelections verifies every selected room exists and allows its bed layout.
func (c *Catalog) CheckSelections(rooms models.RoomSelections) error {
	for _, sel := range rooms {
		r, ok := c.RoomByName(sel.Name)
		if !ok {
			return &models.ValidationError{Field: "rooms", Message: fmt.Sprintf("Chambre inconnue : %s", sel.Name)}
		}
		if !r.Allows(sel.Config) {
			return &models.ValidationError{Field: "rooms", Message: fmt.Sprintf("Configuration %s impossible pour %s", sel.Config.Label(), r.Name)}
		}
	}
	return nil
}
