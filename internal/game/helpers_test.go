package game

import "testing"

// seqRoller replays a fixed list of rolls, clamped into [0, n).
type seqRoller struct {
	vals []int
	i    int
}

func (r *seqRoller) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// zeroTerm makes the damage random term exactly 0.
func zeroTerm() *seqRoller { return &seqRoller{vals: []int{2}} }

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := &Catalog{
		Rules: DefaultRules(),
		Player: Player{
			Name:             "Tester",
			Level:            1,
			ExperienceToNext: 100,
			Health:           100,
			MaxHealth:        100,
			Mana:             50,
			MaxMana:          50,
			Strength:         10,
			Agility:          8,
			Intelligence:     15,
			Constitution:     12,
			Gold:             50,
			Inventory:        []string{"Healing Potion", "Mana Scroll"},
			Equipment:        Equipment{Weapon: "Novice Staff", Armor: "Cloth Robe"},
			Spells:           []string{"Fireball", "Heal"},
		},
		Monsters: []MonsterEntry{
			{ID: "forest_slime", Monster: Monster{ID: "forest_slime", Name: "Forest Slime", Health: 30, MaxHealth: 30, Attack: 8, Defense: 2, Experience: 15, Gold: 10}},
			{ID: "shadow_wolf", Monster: Monster{ID: "shadow_wolf", Name: "Shadow Wolf", Health: 45, MaxHealth: 45, Attack: 12, Defense: 4, Experience: 25, Gold: 18}},
			{ID: "crystal_golem", Monster: Monster{ID: "crystal_golem", Name: "Crystal Golem", Health: 80, MaxHealth: 80, Attack: 15, Defense: 8, Experience: 40, Gold: 35}},
		},
		Spells: map[string]Spell{
			"Fireball": {Name: "Fireball", Cost: 10, Effect: SpellDamage},
			"Heal":     {Name: "Heal", Cost: 10, Effect: SpellHeal},
		},
		Items: map[string]Item{
			"Healing Potion":   {Type: ItemConsumable, Effect: ItemEffect{Health: 30}, Value: 15},
			"Mana Scroll":      {Type: ItemConsumable, Effect: ItemEffect{Mana: 20}, Value: 25},
			"Novice Staff":     {Type: ItemWeapon, Stats: ItemStats{Attack: 8, Intelligence: 2}, Value: 50},
			"Iron Sword":       {Type: ItemWeapon, Stats: ItemStats{Attack: 12}, Value: 100},
			"Cloth Robe":       {Type: ItemArmor, Stats: ItemStats{Defense: 3}, Value: 30},
			"Ring of Strength": {Type: ItemAccessory, Stats: ItemStats{Strength: 3}, Value: 100},
		},
		Shop: []ShopEntry{
			{Item: "Healing Potion", Price: 15, Stock: 10},
			{Item: "Iron Sword", Price: 100, Stock: 3},
			{Item: "Ring of Strength", Price: 150, Stock: 0},
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("test catalog invalid: %v", err)
	}
	return c
}

func testEngine(t *testing.T, r Roller) *Engine {
	t.Helper()
	return &Engine{Catalog: testCatalog(t), Roller: r, Printer: NewPrinter("en")}
}

func battleWith(m Monster) Battle {
	return Battle{Monster: m, Phase: PhasePlayerTurn}
}
