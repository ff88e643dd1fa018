package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoMonsters   = errors.New("catalog has no monsters")
	ErrUnknownItem  = errors.New("unknown item")
	ErrUnknownSpell = errors.New("unknown spell")
	ErrBadItemType  = errors.New("bad item type")
	ErrBadMonster   = errors.New("bad monster")
	ErrBadRules     = errors.New("bad rules")
)

// Rules holds the tunable numbers of the battle and progression engine.
// Keys missing from the catalog keep their DefaultRules value; an explicit 0
// is kept as written, so fleeChance: 0 turns fleeing off.
type Rules struct {
	FleeChance          int `yaml:"fleeChance"` // percent
	LevelStep           int `yaml:"levelStep"`
	SkillPointsPerLevel int `yaml:"skillPointsPerLevel"`
	LogSize             int `yaml:"logSize"`
	DamageSpread        int `yaml:"damageSpread"`
	MinDamage           int `yaml:"minDamage"`
	SellFallback        int `yaml:"sellFallback"`
}

// SpellEffect is what a spell does when cast.
type SpellEffect string

const (
	SpellDamage SpellEffect = "damage"
	SpellHeal   SpellEffect = "heal"
)

// Spell describes a castable spell.
type Spell struct {
	Name   string      `yaml:"name"`
	Cost   int         `yaml:"cost"`
	Effect SpellEffect `yaml:"effect"`
}

// ItemType decides whether an item is used up or equipped, and in which slot.
type ItemType string

const (
	ItemConsumable ItemType = "consumable"
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemAccessory  ItemType = "accessory"
)

// ItemEffect is the restore applied when a consumable is used.
type ItemEffect struct {
	Health int `yaml:"health"`
	Mana   int `yaml:"mana"`
}

// ItemStats are the bonuses granted while an item is equipped.
type ItemStats struct {
	Attack       int `yaml:"attack"`
	Defense      int `yaml:"defense"`
	Strength     int `yaml:"strength"`
	Intelligence int `yaml:"intelligence"`
}

// Item is a catalog entry for anything that can sit in an inventory.
type Item struct {
	Type        ItemType   `yaml:"type"`
	Description string     `yaml:"description"`
	Effect      ItemEffect `yaml:"effect"`
	Stats       ItemStats  `yaml:"stats"`
	Value       int        `yaml:"value"`
}

// ShopEntry is one line of the shop's price list.
type ShopEntry struct {
	Item  string `yaml:"item" json:"item"`
	Price int    `yaml:"price" json:"price"`
	Stock int    `yaml:"stock" json:"stock"`
}

// MonsterEntry keeps the catalog's monster order stable; YAML maps do not.
type MonsterEntry struct {
	ID      string `yaml:"id"`
	Monster `yaml:",inline"`
}

// Catalog is the immutable game configuration loaded once at start and
// handed to the engine. Nothing in this package mutates it after load.
type Catalog struct {
	Rules    Rules            `yaml:"rules"`
	Player   Player           `yaml:"player"`
	Monsters []MonsterEntry   `yaml:"monsters"`
	Spells   map[string]Spell `yaml:"spells"`
	Items    map[string]Item  `yaml:"items"`
	Shop     []ShopEntry      `yaml:"shop"`
}

// LoadCatalog loads and validates a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(b []byte) (*Catalog, error) {
	c := Catalog{Rules: DefaultRules()}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i := range c.Monsters {
		m := &c.Monsters[i]
		m.Monster.ID = m.ID
		if m.MaxHealth == 0 {
			m.MaxHealth = m.Health
		}
		if m.Health == 0 {
			m.Health = m.MaxHealth
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the rules, that every name the catalog refers to is
// defined, and that starting equipment sits in the slot its type names.
func (c *Catalog) Validate() error {
	if err := c.Rules.validate(); err != nil {
		return err
	}
	if len(c.Monsters) == 0 {
		return ErrNoMonsters
	}
	for _, m := range c.Monsters {
		if m.MaxHealth <= 0 {
			return fmt.Errorf("monster %q: %w: maxHealth %d", m.ID, ErrBadMonster, m.MaxHealth)
		}
	}
	for name, it := range c.Items {
		switch it.Type {
		case ItemConsumable, ItemWeapon, ItemArmor, ItemAccessory:
		default:
			return fmt.Errorf("item %q: %w: %q", name, ErrBadItemType, it.Type)
		}
	}
	for _, e := range c.Shop {
		if _, ok := c.Items[e.Item]; !ok {
			return fmt.Errorf("shop entry: %w: %q", ErrUnknownItem, e.Item)
		}
	}
	for _, name := range c.Player.Inventory {
		if _, ok := c.Items[name]; !ok {
			return fmt.Errorf("starting inventory: %w: %q", ErrUnknownItem, name)
		}
	}
	eq := c.Player.Equipment
	for _, slot := range []struct {
		name string
		want ItemType
	}{
		{eq.Weapon, ItemWeapon},
		{eq.Armor, ItemArmor},
		{eq.Accessory, ItemAccessory},
	} {
		if slot.name == "" {
			continue
		}
		it, ok := c.Items[slot.name]
		if !ok {
			return fmt.Errorf("starting equipment: %w: %q", ErrUnknownItem, slot.name)
		}
		if it.Type != slot.want {
			return fmt.Errorf("starting %s %q: %w: %q", slot.want, slot.name, ErrBadItemType, it.Type)
		}
	}
	for _, name := range c.Player.Spells {
		if _, ok := c.Spells[name]; !ok {
			return fmt.Errorf("starting spells: %w: %q", ErrUnknownSpell, name)
		}
	}
	return nil
}

// Monster returns a fresh copy of the archetype with the given id.
func (c *Catalog) Monster(id string) (Monster, bool) {
	for _, m := range c.Monsters {
		if m.ID == id {
			return m.Monster, true
		}
	}
	return Monster{}, false
}

// ShopEntry returns the price list line for an item.
func (c *Catalog) ShopEntry(item string) (ShopEntry, bool) {
	for _, e := range c.Shop {
		if e.Item == item {
			return e, true
		}
	}
	return ShopEntry{}, false
}

// DefaultRules returns the rule set a catalog starts from before its own
// rules are applied.
func DefaultRules() Rules {
	return Rules{
		FleeChance:          70,
		LevelStep:           100,
		SkillPointsPerLevel: 3,
		LogSize:             5,
		DamageSpread:        2,
		MinDamage:           1,
		SellFallback:        5,
	}
}

func (r Rules) validate() error {
	switch {
	case r.FleeChance < 0 || r.FleeChance > 100:
		return fmt.Errorf("%w: fleeChance %d outside 0..100", ErrBadRules, r.FleeChance)
	case r.LevelStep < 1:
		return fmt.Errorf("%w: levelStep %d", ErrBadRules, r.LevelStep)
	case r.LogSize < 1:
		return fmt.Errorf("%w: logSize %d", ErrBadRules, r.LogSize)
	case r.SkillPointsPerLevel < 0, r.DamageSpread < 0, r.MinDamage < 0, r.SellFallback < 0:
		return fmt.Errorf("%w: negative value in %+v", ErrBadRules, r)
	}
	return nil
}
