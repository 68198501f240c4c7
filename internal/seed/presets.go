package seed

import (
	"fmt"
	"os"

	"atrium/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm/clause"
)

// demoProfile is a deterministic profile declared in a preset file.
type demoProfile struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Headline string `yaml:"headline"`
	Bio      string `yaml:"bio"`
}

// preset describes a reproducible seeding profile.
type preset struct {
	Name     string        `yaml:"name"`
	Profiles []demoProfile `yaml:"profiles"`
	Posts    int           `yaml:"posts"`
	Extras   int           `yaml:"extra_profiles"`
}

// builtInPresets are always available without a preset file.
const builtInPresets = `
- name: demo
  posts: 40
  extra_profiles: 10
  profiles:
    - name: Ada Varga
      email: ada@example.com
      headline: Staff Engineer at Meridian Labs
      bio: Distributed systems, espresso, and long walks through flame graphs.
    - name: Ben Okafor
      email: ben@example.com
      headline: Product Designer at Northwind
      bio: Designing calm software.
    - name: Carla Reyes
      email: carla@example.com
      headline: Engineering Manager at Fjord
      bio: Ex-SRE. I still carry a pager in my heart.
- name: minimal
  posts: 5
  extra_profiles: 0
  profiles:
    - name: Test User
      email: test@example.com
      headline: QA at Example Corp
      bio: Exists to be logged into.
`

// LoadPresets parses presets from path, falling back to the built-in set
// when path is empty.
func LoadPresets(path string) ([]preset, error) {
	data := []byte(builtInPresets)
	if path != "" {
		var err error
		data, err = os.ReadFile(path) // #nosec G304: operator-supplied path
		if err != nil {
			return nil, fmt.Errorf("read preset file: %w", err)
		}
	}

	var presets []preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	return presets, nil
}

// ApplyPreset seeds the database from the named preset. Declared profiles
// upsert by email so re-running a preset is safe.
func (s *Seeder) ApplyPreset(name, path string) error {
	presets, err := LoadPresets(path)
	if err != nil {
		return err
	}

	var selected *preset
	for i := range presets {
		if presets[i].Name == name {
			selected = &presets[i]
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("unknown preset %q", name)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	profiles := make([]*models.Profile, 0, len(selected.Profiles))
	for _, dp := range selected.Profiles {
		profile := models.Profile{
			Name:     dp.Name,
			Email:    dp.Email,
			Password: string(hashedPassword),
			Headline: dp.Headline,
			Bio:      dp.Bio,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", dp.Email),
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "headline", "bio", "updated_at"}),
		}).Create(&profile).Error
		if err != nil {
			return fmt.Errorf("seed preset profile %s: %w", dp.Email, err)
		}
		if profile.ID == 0 {
			if err := s.db.Where("email = ?", dp.Email).First(&profile).Error; err != nil {
				return err
			}
		}
		profiles = append(profiles, &profile)
	}

	if selected.Extras > 0 {
		extras, err := s.SeedNetwork(selected.Extras)
		if err != nil {
			return err
		}
		profiles = append(profiles, extras...)
	}

	if selected.Posts > 0 {
		if _, err := s.SeedEngagement(profiles, selected.Posts); err != nil {
			return err
		}
	}
	return nil
}
