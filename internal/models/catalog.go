package models

// Room is static reference data describing one bedroom of the house.
type Room struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Floor         int       `json:"floor" yaml:"floor"`
	FloorName     string    `json:"floor_name" yaml:"floor_name"`
	DefaultConfig BedConfig `json:"default_config" yaml:"default_config"`
	Configurable  bool      `json:"configurable" yaml:"configurable"`
	Description   string    `json:"description" yaml:"description"`
	Capacity      int       `json:"capacity" yaml:"capacity"`
}

// AllowedConfigs lists the bed layouts a guest may pick for the room.
func (r Room) AllowedConfigs() []BedConfig {
	if r.Configurable {
		return []BedConfig{BedKing, BedTwoSingles}
	}
	return []BedConfig{r.DefaultConfig}
}

func (r Room) Allows(c BedConfig) bool {
	for _, allowed := range r.AllowedConfigs() {
		if allowed == c {
			return true
		}
	}
	return false
}

type Floor struct {
	Level       int    `json:"level" yaml:"level"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type FamilyMember struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}
