package game

// removeOne returns a copy of items without the first occurrence of name.
func removeOne(items []string, name string) ([]string, bool) {
	for i, it := range items {
		if it == name {
			out := make([]string, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

// UseItem consumes one copy of a consumable and applies its restore, capped
// at the player's maximums. Anything else is a no-op.
func UseItem(p Player, c *Catalog, name string) (Player, bool) {
	it, ok := c.Items[name]
	if !ok || it.Type != ItemConsumable {
		return p, false
	}
	inv, ok := removeOne(p.Inventory, name)
	if !ok {
		return p, false
	}
	p.Inventory = inv
	if it.Effect.Health != 0 {
		p.Health = clamp(p.Health+it.Effect.Health, 0, p.MaxHealth)
	}
	if it.Effect.Mana != 0 {
		p.Mana = clamp(p.Mana+it.Effect.Mana, 0, p.MaxMana)
	}
	return p, true
}

// slot returns a pointer to the equipment slot an item type occupies.
func (e *Equipment) slot(t ItemType) *string {
	switch t {
	case ItemWeapon:
		return &e.Weapon
	case ItemArmor:
		return &e.Armor
	case ItemAccessory:
		return &e.Accessory
	default:
		return nil
	}
}

// Equip moves an item from the inventory into its slot, returning whatever
// was there to the inventory.
func Equip(p Player, c *Catalog, name string) (Player, bool) {
	it, ok := c.Items[name]
	if !ok {
		return p, false
	}
	inv, ok := removeOne(p.Inventory, name)
	if !ok {
		return p, false
	}
	eq := p.Equipment
	s := eq.slot(it.Type)
	if s == nil {
		return p, false
	}
	if *s != "" {
		inv = append(inv, *s)
	}
	*s = name
	p.Inventory = inv
	p.Equipment = eq
	return p, true
}

// Unequip empties a slot ("weapon", "armor" or "accessory") into the inventory.
func Unequip(p Player, slotName string) (Player, bool) {
	eq := p.Equipment
	s := eq.slot(ItemType(slotName))
	if s == nil || *s == "" {
		return p, false
	}
	inv := make([]string, 0, len(p.Inventory)+1)
	inv = append(inv, p.Inventory...)
	p.Inventory = append(inv, *s)
	*s = ""
	p.Equipment = eq
	return p, true
}
