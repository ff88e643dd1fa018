package game

// NewPlayer returns the starting adventurer described by the catalog.
// Slices are copied so the catalog stays untouched.
func NewPlayer(c *Catalog) Player {
	p := c.Player
	p.Inventory = append([]string(nil), c.Player.Inventory...)
	p.Spells = append([]string(nil), c.Player.Spells...)
	if p.Level == 0 {
		p.Level = 1
	}
	if p.ExperienceToNext == 0 {
		p.ExperienceToNext = p.Level * c.Rules.LevelStep
	}
	if p.MaxHealth == 0 {
		p.MaxHealth = p.Health
	}
	if p.MaxMana == 0 {
		p.MaxMana = p.Mana
	}
	return p
}

// Derived totals the player's base attributes with the bonuses of every
// equipped item. Unknown item names contribute nothing.
func Derived(p Player, c *Catalog) DerivedStats {
	d := DerivedStats{
		Attack:       p.Strength,
		Defense:      p.Constitution,
		Intelligence: p.Intelligence,
	}
	for _, name := range p.Equipment.slots() {
		if name == "" {
			continue
		}
		it, ok := c.Items[name]
		if !ok {
			continue
		}
		d.Attack += it.Stats.Attack + it.Stats.Strength
		d.Defense += it.Stats.Defense
		d.Intelligence += it.Stats.Intelligence
	}
	return d
}

func (e Equipment) slots() [3]string {
	return [3]string{e.Weapon, e.Armor, e.Accessory}
}

// knowsSpell reports whether name is in the player's spell list.
func (p Player) knowsSpell(name string) bool {
	for _, s := range p.Spells {
		if s == name {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
