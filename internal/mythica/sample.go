package mythica

// SampleSheet returns the character used when no sheet file is given.
func SampleSheet() map[string]any {
	skills := []Skill{
		NewSkill("Read Common", Mental, 1, 0, 1),
		NewSkill("Bargaining", Mental, 1, 0, 1),
		NewSkill("Begging", Mental, 2, 0, 1),
		NewSkill("Appraisal", Mental, 1, 0, 1),
		NewSkill("Local History", Mental, 1, 0, 1),
		NewSkill("Endow Plants", Mental, 1, 0, 1),
		NewSkill("Fishing", Mental, 1, 0, 1),
		NewSkill("Artificer", Mental, 2, 0, 1),
		NewSkill("Stiletto", Weapon, 2, 0, 1),
		NewSkill("Pick Pockets", Physical, 2, 0, 1),
		NewSkill("Tumbling", Physical, 1, 0, 1),
		NewSkill("Disguise", Physical, 2, 0, 1),
		NewSkill("Armor", Physical, 1, 4, 1),
		NewSkill("Ranged Spell", Weapon, 4, 1, 1),
		NewSkill("Rope Use", Physical, 1, 0, 1),
		NewSkill("Scattershot", Spell, 1, 0, 1),
		NewSkill("Spell Craft", Mental, 2, 2, 3),
		NewSkill("Spell Theory", Mental, 2, 2, 3),
		NewSkill("Smithing", Physical, 2, 4, 1),
		NewSkill("Weapon Smithing", Mental, 2, 0, 1),
		NewSkill("Dust Bolt", Spell, 1, 0, 1),
		NewSkill("Deep Bolt", Spell, 1, 1, 1),
		NewSkill("Armor", Spell, 1, 4, 1),
		NewSkill("Jewel Smithing", Mental, 1, 0, 2),
		NewSkill("Research", Mental, 1, 0, 1),
		NewSkill("Cartography", Mental, 1, 1, 1),
		NewSkill("Ice Bolt", Spell, 0, 4, 1),
		NewSkill("Geomancy", Spell, 0, 2, 2),
		NewSkill("Detect Magic", Spell, 0, 11, 1),
		NewSkill("Endow with Element", Spell, 0, 5, 2),
		NewSkill("Imposing Image", Spell, 1, 0, 1),
		NewSkill("Reality Leak", Spell, 0, 0, 2),

		NewHeroic("First Circle Access", 1, nil),
		NewHeroic("Nimble", 2, map[string]any{"Dodge": 1, "Parry": 1}),
		NewHeroic("First Tier Arcane", 1, nil),
		NewHeroic("Second Tier Arcane", 3, nil),
		NewConduit(5, ""),
		NewHeroic("Uncanny Strike", 1, map[string]any{"Hit Bonus": 1}),
		NewHeroic("Grievous Blow", 8, map[string]any{"Base Damage": 1}),
		NewHeroic("Rapidity", 6, map[string]any{"Initiative": -1}),
		NewHeroic("Vicious Blow", 1, map[string]any{"Damage": 1}),
		NewHeroic("Stealth Strike", 3, nil),
		NewHeroic("Aura Extension", 1, nil),
		NewHeroic("3rd Tier", 5, nil),
		NewHeroic("Nimble", 4, map[string]any{"Dodge": 1, "Parry": 1}),
		NewHeroic("Flurry", 6, nil),
		NewHeroic("2nd Circle", 10, nil),
		NewHeroic("4th Tier", 10, nil),
	}

	list := make([]any, len(skills))
	for i, s := range skills {
		list[i] = s
	}

	return map[string]any{
		KeyBaseStats: map[string]any{
			"Combat Skill": 13,
			"Dexterity":    16,
			"Health":       11,
			"Intelligence": 18,
			"Magic":        17,
			"Perception":   20,
			"Presence":     11,
			"Speed":        13,
			"Spirit":       10,
			"Strength":     10,
			"Luck":         10,
		},
		"practice_sessions": map[string]any{"Combat Skill": 9, "Dexterity": 2},
		KeySkills:           list,
		KeyRace:             "Human",
		KeyLevel:            8,
	}
}
