package sheet

import (
	"maps"

	"go.trai.ch/flock/internal/mythica"
)

// Sheet is the YAML form of a character sheet. Keys the rules do not read directly are kept
// in Extra, so saved sheets with computed values load back unchanged.
type Sheet struct {
	BaseStats map[string]int  `yaml:"base_stats" validate:"required,dive,gte=0"`
	Race      string          `yaml:"Race,omitempty"`
	Level     int             `yaml:"level,omitempty" validate:"gte=0"`
	Skills    []mythica.Skill `yaml:"skills,omitempty" validate:"dive"`
	Extra     map[string]any  `yaml:",inline"`
}

// Values converts the sheet into plain values for flock.FromMap.
func (s *Sheet) Values() map[string]any {
	out := make(map[string]any, len(s.Extra)+4)
	maps.Copy(out, s.Extra)

	stats := make(map[string]any, len(s.BaseStats))
	for k, v := range s.BaseStats {
		stats[k] = v
	}
	out[mythica.KeyBaseStats] = stats

	if s.Race != "" {
		out[mythica.KeyRace] = s.Race
	}
	if s.Level != 0 {
		out[mythica.KeyLevel] = s.Level
	}
	if s.Skills != nil {
		skills := make([]any, len(s.Skills))
		for i, sk := range s.Skills {
			skills[i] = sk
		}
		out[mythica.KeySkills] = skills
	}
	return out
}
