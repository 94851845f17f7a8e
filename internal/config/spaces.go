package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// OfficeConfig declares one tenant office.
type OfficeConfig struct {
	ID          int64  `yaml:"id"`
	Number      string `yaml:"number"`
	CompanyName string `yaml:"company_name"`
}

// BlockConfig is a custom time block for a space override schedule.
type BlockConfig struct {
	Start string `yaml:"start"` // "08:00"
	End   string `yaml:"end"`   // "09:30"
	Label string `yaml:"label"`
}

// SpaceConfig declares one bookable space.
type SpaceConfig struct {
	ID              int64         `yaml:"id"`
	Name            string        `yaml:"name"`
	Category        string        `yaml:"category"`
	Active          bool          `yaml:"active"`
	OwnerOfficeID   *int64        `yaml:"owner_office_id,omitempty"`
	VisitorParking  bool          `yaml:"visitor_parking"`
	UseCustomBlocks bool          `yaml:"use_custom_blocks"`
	CustomBlocks    []BlockConfig `yaml:"custom_blocks,omitempty"`
}

// SpacesConfig is the root of spaces.yaml: the building's offices and
// bookable spaces.
type SpacesConfig struct {
	Offices []OfficeConfig `yaml:"offices"`
	Spaces  []SpaceConfig  `yaml:"spaces"`
}

// LoadSpacesConfig loads and validates spaces.yaml.
func LoadSpacesConfig(path string) (*SpacesConfig, error) {
	if path == "" {
		path = "configs/spaces.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spaces config: %w", err)
	}

	var cfg SpacesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse spaces config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate spaces config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *SpacesConfig) Validate() error {
	if len(c.Spaces) == 0 {
		return fmt.Errorf("no spaces defined")
	}

	officeIDs := make(map[int64]bool)
	for i, o := range c.Offices {
		if o.ID <= 0 {
			return fmt.Errorf("office[%d]: id must be positive, got %d", i, o.ID)
		}
		if officeIDs[o.ID] {
			return fmt.Errorf("office[%d]: duplicate id %d", i, o.ID)
		}
		officeIDs[o.ID] = true
		if o.Number == "" {
			return fmt.Errorf("office[%d]: number is required", i)
		}
	}

	spaceIDs := make(map[int64]bool)
	names := make(map[string]bool)
	for i, s := range c.Spaces {
		if s.ID <= 0 {
			return fmt.Errorf("space[%d]: id must be positive, got %d", i, s.ID)
		}
		if spaceIDs[s.ID] {
			return fmt.Errorf("space[%d]: duplicate id %d", i, s.ID)
		}
		spaceIDs[s.ID] = true

		if s.Name == "" {
			return fmt.Errorf("space[%d]: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("space[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = true

		cat, err := models.ParseCategory(s.Category)
		if err != nil {
			return fmt.Errorf("space[%d]: %w", i, err)
		}

		if s.OwnerOfficeID != nil {
			if cat != models.CategoryParking {
				return fmt.Errorf("space[%d]: owner_office_id is only valid for parking", i)
			}
			if len(c.Offices) > 0 && !officeIDs[*s.OwnerOfficeID] {
				return fmt.Errorf("space[%d]: owner office %d is not declared", i, *s.OwnerOfficeID)
			}
		}

		if s.UseCustomBlocks && len(s.CustomBlocks) == 0 {
			return fmt.Errorf("space[%d]: use_custom_blocks set without custom_blocks", i)
		}
		for j, b := range s.CustomBlocks {
			start, err := models.ParseClock(b.Start)
			if err != nil {
				return fmt.Errorf("space[%d].custom_blocks[%d]: %w", i, j, err)
			}
			end, err := models.ParseClock(b.End)
			if err != nil {
				return fmt.Errorf("space[%d].custom_blocks[%d]: %w", i, j, err)
			}
			if end <= start {
				return fmt.Errorf("space[%d].custom_blocks[%d]: end must be after start", i, j)
			}
		}
	}

	return nil
}

// ToSpace converts a config entry to the domain type.
func (s *SpaceConfig) ToSpace() models.Space {
	space := models.Space{
		ID:              s.ID,
		Name:            s.Name,
		Category:        models.Category(s.Category),
		Active:          s.Active,
		OwnerOfficeID:   s.OwnerOfficeID,
		VisitorParking:  s.VisitorParking,
		UseCustomBlocks: s.UseCustomBlocks,
	}
	for _, b := range s.CustomBlocks {
		space.CustomBlocks = append(space.CustomBlocks, models.TimeBlock{
			Start: b.Start,
			End:   b.End,
			Label: b.Label,
		})
	}
	return space
}

// String returns a summary of the configuration.
func (c *SpacesConfig) String() string {
	active := 0
	for _, s := range c.Spaces {
		if s.Active {
			active++
		}
	}
	return fmt.Sprintf("SpacesConfig: %d offices, %d spaces (%d active)", len(c.Offices), len(c.Spaces), active)
}
