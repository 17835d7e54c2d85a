// Package mythica implements the Mythica character sheet on top of flock containers.
//
// A sheet starts as plain data (base stats, race, level, skills). ApplyRules turns it into a
// live computation: attributes, table bonuses, point allotments and spell points are rules
// that follow every later edit of the sheet.
package mythica

import (
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/engine/flock"
	"go.trai.ch/flock/internal/rules"
	"go.trai.ch/zerr"
)

// Sheet keys.
const (
	KeyBaseStats        = "base_stats"
	KeyAttributeBonuses = "Attribute_Bonuses"
	KeyBaseBonuses      = "base_bonuses"
	KeyBonuses          = "bonuses"
	KeyRacialBonuses    = "Racial Bonuses"
	KeyHeroicBonuses    = "Heroic Bonuses"
	KeySpellPoints      = "Spell Points"
	KeyPoints           = "points"
	KeyLevel            = "level"
	KeyRace             = "Race"
	KeySkills           = "skills"
)

// Bonus names read by the rules.
const (
	MentalSkillPoints   = "Mental Skill Points"
	PhysicalSkillPoints = "Phy Skill Points"
	SpellPoints         = "Spell Points"
	SpellPointsMultiple = "Spell Points Multiple"
	Heroics             = "heroics"
)

// Point pools.
const (
	PoolUniversal = "universal"
	PoolMental    = "mental"
	PoolPhysical  = "physical"
	PoolHeroic    = "heroic"
)

// StartingUniversalPoints is the universal pool every character starts with.
const StartingUniversalPoints = 10

// ApplyRules installs the Mythica rules on char.
func ApplyRules(char *flock.Dict, table *domain.AttributeTable) error {
	steps := []func(*flock.Dict, *domain.AttributeTable) error{
		applyAttribs,
		applyAttributeTable,
		applyRacialBonuses,
		applyLevelAllotments,
		applySkills,
		applyHeroics,
		applySpellPoints,
	}
	for _, step := range steps {
		if err := step(char, table); err != nil {
			return err
		}
	}
	return nil
}

// applyAttribs exposes every base stat as a top-level attribute.
func applyAttribs(char *flock.Dict, _ *domain.AttributeTable) error {
	stats, err := reader(char, KeyBaseStats)
	if err != nil {
		return err
	}
	for _, attr := range stats.Keys() {
		if err := char.Set(attr, rules.Reference(char, KeyBaseStats, attr)); err != nil {
			return err
		}
	}
	return nil
}

func applyAttributeTable(char *flock.Dict, table *domain.AttributeTable) error {
	attrBonuses, err := subDict(char, KeyAttributeBonuses)
	if err != nil {
		return err
	}
	for _, col := range table.Columns {
		if err := attrBonuses.Set(col.Bonus, rules.Lookup(char, col.Attribute, table.Column(col))); err != nil {
			return err
		}
	}

	err = char.Set(KeyBaseBonuses, map[string]any{
		SpellPointsMultiple: map[string]any{string(General): 1},
	})
	if err != nil {
		return err
	}
	base, err := reader(char, KeyBaseBonuses)
	if err != nil {
		return err
	}
	return char.Set(KeyBonuses, flock.NewAggregator(flock.SourceList(attrBonuses, base), rules.CrossTotal))
}

// applyRacialBonuses adds race-specific bonuses. Humans get +2 Spirit and one heroic point.
func applyRacialBonuses(char *flock.Dict, _ *domain.AttributeTable) error {
	racial, err := subDict(char, KeyRacialBonuses)
	if err != nil {
		return err
	}

	var race any
	if char.Contains(KeyRace) {
		if race, err = char.Get(KeyRace); err != nil {
			return err
		}
	}
	if race == "Human" {
		err := char.Set("Spirit", flock.Bind(func() (any, error) {
			v, err := rules.Walk(char, KeyBaseStats, "Spirit")
			if err != nil {
				return nil, err
			}
			return rules.Sum([]any{v, 2})
		}, char))
		if err != nil {
			return err
		}
		if err := racial.Set(Heroics, 1); err != nil {
			return err
		}
	}

	bonuses, err := aggregator(char, KeyBonuses)
	if err != nil {
		return err
	}
	bonuses.AddSource(racial)
	return nil
}

func applyLevelAllotments(char *flock.Dict, _ *domain.AttributeTable) error {
	if _, err := char.SetDefault(KeyLevel, 1); err != nil {
		return err
	}
	points, err := subDict(char, KeyPoints)
	if err != nil {
		return err
	}
	if _, err := points.SetDefault("total", map[string]any{PoolUniversal: StartingUniversalPoints}); err != nil {
		return err
	}
	total, err := subDict(points, "total")
	if err != nil {
		return err
	}

	return total.Update(
		flock.Pair{Key: PoolMental, Value: perLevel(char, MentalSkillPoints)},
		flock.Pair{Key: PoolPhysical, Value: perLevel(char, PhysicalSkillPoints)},
		flock.Pair{Key: PoolHeroic, Value: flock.Rule(func() (any, error) {
			level, err := number(char, KeyLevel)
			if err != nil {
				return nil, err
			}
			heroics, err := number(char, KeyBonuses, Heroics)
			if err != nil {
				return nil, err
			}
			return level * (level + 1 + heroics), nil
		})},
	)
}

// perLevel returns a rule yielding level times the named bonus.
func perLevel(char *flock.Dict, bonus string) flock.Rule {
	return func() (any, error) {
		level, err := number(char, KeyLevel)
		if err != nil {
			return nil, err
		}
		b, err := number(char, KeyBonuses, bonus)
		if err != nil {
			return nil, err
		}
		return level * b, nil
	}
}

func applySkills(char *flock.Dict, _ *domain.AttributeTable) error {
	if _, err := char.SetDefault(KeySkills, []any{}); err != nil {
		return err
	}
	points, err := subDict(char, KeyPoints)
	if err != nil {
		return err
	}
	spent, err := subDict(points, "spent")
	if err != nil {
		return err
	}
	available, err := subDict(points, "available")
	if err != nil {
		return err
	}

	pools := []struct {
		name string
		pays func(Skill) bool
	}{
		{PoolMental, Skill.IsMental},
		{PoolPhysical, Skill.IsPhysical},
		{PoolHeroic, Skill.IsHeroic},
	}
	for _, pool := range pools {
		if err := spent.Set(pool.name, spending(char, pool.pays)); err != nil {
			return err
		}
		if err := available.Set(pool.name, remaining(points, pool.name)); err != nil {
			return err
		}
	}

	// Overspent pools are paid from the universal pool.
	err = spent.Set(PoolUniversal, flock.Rule(func() (any, error) {
		overspent := 0.0
		for _, pool := range available.Keys() {
			if pool == PoolUniversal {
				continue
			}
			left, err := number(available, pool)
			if err != nil {
				return nil, err
			}
			if left < 0 {
				overspent -= left
			}
		}
		return overspent, nil
	}))
	if err != nil {
		return err
	}
	return available.Set(PoolUniversal, remaining(points, PoolUniversal))
}

func spending(char *flock.Dict, pays func(Skill) bool) flock.Rule {
	return func() (any, error) {
		skills, err := Skills(char)
		if err != nil {
			return nil, err
		}
		cost := 0
		for _, s := range skills {
			if pays(s) {
				cost += s.Cost
			}
		}
		return cost, nil
	}
}

func remaining(points *flock.Dict, pool string) flock.Rule {
	return func() (any, error) {
		total, err := number(points, "total", pool)
		if err != nil {
			return nil, err
		}
		spent, err := number(points, "spent", pool)
		if err != nil {
			return nil, err
		}
		return total - spent, nil
	}
}

// applyHeroics aggregates the bonuses of every heroic skill. The sources follow the
// current skill list.
func applyHeroics(char *flock.Dict, _ *domain.AttributeTable) error {
	heroic := flock.NewAggregator(flock.SourceFunc(func() ([]flock.Reader, error) {
		skills, err := Skills(char)
		if err != nil {
			return nil, err
		}
		var srcs []flock.Reader
		for _, s := range skills {
			if s.IsHeroic() {
				srcs = append(srcs, flock.FromMap(s.Bonuses))
			}
		}
		return srcs, nil
	}), rules.CrossTotal)
	if err := char.Set(KeyHeroicBonuses, heroic); err != nil {
		return err
	}

	bonuses, err := aggregator(char, KeyBonuses)
	if err != nil {
		return err
	}
	bonuses.AddSource(heroic)
	return nil
}

// applySpellPoints multiplies the spell point bonus by the multiple of each spell type.
func applySpellPoints(char *flock.Dict, _ *domain.AttributeTable) error {
	multiples := flock.SourceFunc(func() ([]flock.Reader, error) {
		v, err := rules.Walk(char, KeyBonuses, SpellPointsMultiple)
		if err != nil {
			return nil, err
		}
		r, err := rules.AsReader(v)
		if err != nil {
			return nil, err
		}
		return []flock.Reader{r}, nil
	})
	return char.Set(KeySpellPoints, flock.NewAggregator(multiples, func(values []any) (any, error) {
		multiple, err := rules.Sum(values)
		if err != nil {
			return nil, err
		}
		m, err := rules.Float(multiple)
		if err != nil {
			return nil, err
		}
		per, err := number(char, KeyBonuses, SpellPoints)
		if err != nil {
			return nil, err
		}
		return m * per, nil
	}))
}

// Skills returns the skill list of char.
func Skills(char flock.Reader) ([]Skill, error) {
	list, err := reader(char, KeySkills)
	if err != nil {
		return nil, err
	}
	out := make([]Skill, 0, list.Len())
	for _, k := range list.Keys() {
		v, err := list.Get(k)
		if err != nil {
			return nil, err
		}
		switch s := v.(type) {
		case Skill:
			out = append(out, s)
		case *Skill:
			out = append(out, *s)
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedOperand, "skill"), "index", k)
		}
	}
	return out, nil
}

func number(r flock.Reader, path ...any) (float64, error) {
	v, err := rules.Walk(r, path...)
	if err != nil {
		return 0, err
	}
	f, err := rules.Float(v)
	if err != nil {
		return 0, zerr.With(err, "path", domain.FormatPath(path))
	}
	return f, nil
}

func reader(r flock.Reader, key string) (flock.Reader, error) {
	v, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	out, ok := v.(flock.Reader)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotAContainer, key), "key", key)
	}
	return out, nil
}

// subDict returns the mapping at key, creating an empty one when key is absent.
func subDict(d *flock.Dict, key string) (*flock.Dict, error) {
	v, err := d.SetDefault(key, map[string]any{})
	if err != nil {
		return nil, err
	}
	out, ok := v.(*flock.Dict)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotAContainer, key), "key", key)
	}
	return out, nil
}

func aggregator(d *flock.Dict, key string) (*flock.Aggregator, error) {
	v, err := d.Get(key)
	if err != nil {
		return nil, err
	}
	out, ok := v.(*flock.Aggregator)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrStructural, "not an aggregator"), "key", key)
	}
	return out, nil
}
