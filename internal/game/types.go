package game

// Equipment holds the item names in each slot. An empty string is an empty slot.
type Equipment struct {
	Weapon    string `json:"weapon" yaml:"weapon"`
	Armor     string `json:"armor" yaml:"armor"`
	Accessory string `json:"accessory" yaml:"accessory"`
}

// Player is the full stat snapshot of the adventurer. Battle outcomes, item use
// and shop transactions all take a Player and return an updated copy.
type Player struct {
	Name             string    `json:"name" yaml:"name"`
	Level            int       `json:"level" yaml:"level"`
	Experience       int       `json:"experience" yaml:"experience"`
	ExperienceToNext int       `json:"experienceToNext" yaml:"experienceToNext"`
	Health           int       `json:"health" yaml:"health"`
	MaxHealth        int       `json:"maxHealth" yaml:"maxHealth"`
	Mana             int       `json:"mana" yaml:"mana"`
	MaxMana          int       `json:"maxMana" yaml:"maxMana"`
	Strength         int       `json:"strength" yaml:"strength"`
	Agility          int       `json:"agility" yaml:"agility"`
	Intelligence     int       `json:"intelligence" yaml:"intelligence"`
	Constitution     int       `json:"constitution" yaml:"constitution"`
	SkillPoints      int       `json:"skillPoints" yaml:"skillPoints"`
	Gold             int       `json:"gold" yaml:"gold"`
	Inventory        []string  `json:"inventory" yaml:"inventory"`
	Equipment        Equipment `json:"equipment" yaml:"equipment"`
	Spells           []string  `json:"spells" yaml:"spells"`
}

// DerivedStats are the totals after equipment bonuses are applied.
type DerivedStats struct {
	Attack       int `json:"attack"`
	Defense      int `json:"defense"`
	Intelligence int `json:"intelligence"`
}

// Monster is one battle opponent. Catalog entries are templates; a battle holds
// its own copy.
type Monster struct {
	ID          string `json:"id" yaml:"-"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Health      int    `json:"health" yaml:"health"`
	MaxHealth   int    `json:"maxHealth" yaml:"maxHealth"`
	Attack      int    `json:"attack" yaml:"attack"`
	Defense     int    `json:"defense" yaml:"defense"`
	Experience  int    `json:"experience" yaml:"experience"`
	Gold        int    `json:"gold" yaml:"gold"`
}

// Phase is whose move a battle is waiting on.
type Phase int

const (
	PhasePlayerTurn Phase = iota
	PhaseMonsterTurn
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseMonsterTurn:
		return "monster_turn"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText lets Phase appear as a readable string in JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText; unknown values map to PhaseEnded.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player_turn":
		*p = PhasePlayerTurn
	case "monster_turn":
		*p = PhaseMonsterTurn
	default:
		*p = PhaseEnded
	}
	return nil
}

// Outcome is the terminal result reported to whoever started the battle.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "flee"
)

// Battle is the transient state of one fight, from monster selection to
// terminal outcome. Companion is carried for display only.
type Battle struct {
	Monster   Monster  `json:"monster"`
	Phase     Phase    `json:"phase"`
	Outcome   Outcome  `json:"outcome,omitempty"`
	Companion bool     `json:"companion"`
	Log       []string `json:"log"`
}

// Ended reports whether the battle has reached a terminal outcome.
func (b Battle) Ended() bool {
	return b.Phase == PhaseEnded
}

// ActionKind is what the player chose to do on their turn.
type ActionKind string

const (
	ActionAttack ActionKind = "attack"
	ActionSpell  ActionKind = "spell"
	ActionFlee   ActionKind = "flee"
)

// Action is a single player command. Spell is only read for ActionSpell.
type Action struct {
	Kind  ActionKind `json:"action"`
	Spell string     `json:"spell,omitempty"`
}

// TurnResult is the state after one transition. When Rejected is non-empty
// the action was ignored and Battle and Player equal the inputs.
type TurnResult struct {
	Battle   Battle `json:"battle"`
	Player   Player `json:"player"`
	LevelUp  bool   `json:"levelUp,omitempty"`
	Rejected string `json:"rejected,omitempty"`
}
