package mythica

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SkillType classifies a skill for point spending.
type SkillType string

// Skill types.
const (
	General  SkillType = "General"
	Heroic   SkillType = "Heroic"
	Mental   SkillType = "Mental"
	Spell    SkillType = "Spell"
	Physical SkillType = "Physical"
	Weapon   SkillType = "Weapon"
)

// ConduitTag is the YAML tag of the short conduit form, e.g. `!conduit 5 General`.
const ConduitTag = "!conduit"

// Valid reports whether t is a known skill type.
func (t SkillType) Valid() bool {
	switch t {
	case General, Heroic, Mental, Spell, Physical, Weapon:
		return true
	}
	return false
}

// Skill is one entry of a character's skill list.
type Skill struct {
	Name    string         `yaml:"name" json:"name" validate:"required"`
	Type    SkillType      `yaml:"type" json:"type" validate:"required,oneof=General Heroic Mental Spell Physical Weapon"`
	Cost    int            `yaml:"cost" json:"cost" validate:"min=0"`
	XP      int            `yaml:"xp,omitempty" json:"xp,omitempty" validate:"min=0"`
	Level   int            `yaml:"level" json:"level" validate:"min=0"`
	Bonuses map[string]any `yaml:"bonuses,omitempty" json:"bonuses,omitempty"`

	// SpellType is only set on conduits.
	SpellType string `yaml:"-" json:"spell_type,omitempty"`
}

// plainSkill has the fields of Skill without its YAML methods.
type plainSkill Skill

// NewSkill creates a skill. The level is raised to the cost when it is lower.
func NewSkill(name string, t SkillType, cost, xp, level int) Skill {
	return Skill{Name: name, Type: t, Cost: cost, XP: xp, Level: max(level, cost)}
}

// NewHeroic creates a heroic skill granting bonuses.
func NewHeroic(name string, cost int, bonuses map[string]any) Skill {
	s := NewSkill(name, Heroic, cost, 0, 1)
	s.Bonuses = bonuses
	return s
}

// NewConduit creates the heroic skill that multiplies spell points of one spell type.
// An empty spell type means General.
func NewConduit(cost int, spellType string) Skill {
	if spellType == "" {
		spellType = string(General)
	}
	name := "Conduit"
	if spellType != string(General) {
		name = "Conduit -- " + spellType
	}
	s := NewSkill(name, Heroic, cost, 0, 1)
	s.SpellType = spellType
	s.Bonuses = map[string]any{
		SpellPointsMultiple: map[string]any{spellType: cost},
	}
	return s
}

// IsPhysical reports whether the skill is paid with physical points.
func (s Skill) IsPhysical() bool {
	return s.Type == Physical || s.Type == Weapon
}

// IsMental reports whether the skill is paid with mental points.
func (s Skill) IsMental() bool {
	return s.Type == Mental || s.Type == Spell
}

// IsHeroic reports whether the skill is paid with heroic points.
func (s Skill) IsHeroic() bool {
	return s.Type == Heroic
}

// IsConduit reports whether the skill was created by NewConduit.
func (s Skill) IsConduit() bool {
	return s.SpellType != ""
}

func (s Skill) String() string {
	if s.IsConduit() {
		return fmt.Sprintf("%s x%d", s.Name, s.Cost)
	}
	return fmt.Sprintf("%s (%s %d)", s.Name, s.Type, s.Cost)
}

// MarshalYAML writes conduits in their tagged short form.
func (s Skill) MarshalYAML() (any, error) {
	if s.IsConduit() {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   ConduitTag,
			Value: fmt.Sprintf("%d %s", s.Cost, s.SpellType),
		}, nil
	}
	return plainSkill(s), nil
}

// UnmarshalYAML reads either a skill mapping or a tagged conduit. Missing cost and level
// default to 1.
func (s *Skill) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == ConduitTag {
		c, err := ParseConduit(node.Value)
		if err != nil {
			return err
		}
		*s = c
		return nil
	}

	raw := plainSkill{Cost: 1, Level: 1}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return zerr.With(zerr.Wrap(domain.ErrUnknownSkillType, raw.Name), "type", string(raw.Type))
	}
	*s = NewSkill(raw.Name, raw.Type, raw.Cost, raw.XP, raw.Level)
	s.Bonuses = raw.Bonuses
	return nil
}

// ParseConduit parses the short form "<cost> <spell type>".
func ParseConduit(value string) (Skill, error) {
	cost, spellType, _ := strings.Cut(strings.TrimSpace(value), " ")
	n, err := strconv.Atoi(cost)
	if err != nil || n < 0 {
		return Skill{}, zerr.With(zerr.Wrap(domain.ErrInvalidConduit, "parse"), "value", value)
	}
	return NewConduit(n, strings.TrimSpace(spellType)), nil
}
