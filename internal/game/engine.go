package game

import (
	"golang.org/x/text/message"
)

// Engine resolves battles against a fixed catalog. It holds no per-battle
// state; every call takes the current Battle and Player and returns new ones.
type Engine struct {
	Catalog *Catalog
	Roller  Roller
	Printer *message.Printer
}

// NewEngine returns an engine drawing from crypto/rand and logging in locale.
func NewEngine(c *Catalog, locale string) *Engine {
	return &Engine{
		Catalog: c,
		Roller:  CryptoRoller{},
		Printer: NewPrinter(locale),
	}
}

func (e *Engine) roller() Roller {
	if e.Roller == nil {
		return CryptoRoller{}
	}
	return e.Roller
}

func (e *Engine) sprintf(key string, a ...any) string {
	pr := e.Printer
	if pr == nil {
		pr = NewPrinter("en")
	}
	return pr.Sprintf(key, a...)
}

// log returns a new slice holding the last LogSize entries of entries+msgs,
// leaving the caller's slice untouched.
func (e *Engine) log(entries []string, msgs ...string) []string {
	all := make([]string, 0, len(entries)+len(msgs))
	all = append(all, entries...)
	all = append(all, msgs...)
	if n := e.Catalog.Rules.LogSize; len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// StartBattle draws one monster uniformly from the catalog at full health.
func (e *Engine) StartBattle(companion bool) Battle {
	entries := e.Catalog.Monsters
	m := entries[e.roller().Intn(len(entries))].Monster
	m.Health = m.MaxHealth
	return Battle{
		Monster:   m,
		Phase:     PhasePlayerTurn,
		Companion: companion,
		Log:       e.log(nil, e.sprintf(msgAppears, m.Name)),
	}
}

func rejected(b Battle, p Player, reason string) TurnResult {
	return TurnResult{Battle: b, Player: p, Rejected: reason}
}

// Act applies the player's move. Moves out of turn, after the end, with too
// little mana, or naming an unknown spell are rejected with no state change.
func (e *Engine) Act(b Battle, p Player, a Action) TurnResult {
	switch b.Phase {
	case PhaseEnded:
		return rejected(b, p, e.sprintf(msgBattleOver))
	case PhaseMonsterTurn:
		return rejected(b, p, e.sprintf(msgNotYourTurn))
	}

	switch a.Kind {
	case ActionAttack:
		return e.attack(b, p)
	case ActionSpell:
		return e.castSpell(b, p, a.Spell)
	case ActionFlee:
		return e.flee(b, p)
	default:
		return rejected(b, p, e.sprintf(msgUnknownMove))
	}
}

func (e *Engine) attack(b Battle, p Player) TurnResult {
	d := Derived(p, e.Catalog)
	dmg := e.Catalog.Rules.Damage(d.Attack, b.Monster.Defense, e.roller())
	b.Monster.Health = max(0, b.Monster.Health-dmg)
	b.Log = e.log(b.Log, e.sprintf(msgPlayerHit, b.Monster.Name, dmg))
	return e.afterStrike(b, p)
}

func (e *Engine) castSpell(b Battle, p Player, name string) TurnResult {
	spell, ok := e.Catalog.Spells[name]
	if !ok || !p.knowsSpell(name) {
		return rejected(b, p, e.sprintf(msgUnknownSpell))
	}
	if spell.Effect != SpellDamage && spell.Effect != SpellHeal {
		return rejected(b, p, e.sprintf(msgUnknownSpell))
	}
	if p.Mana < spell.Cost {
		return rejected(b, p, e.sprintf(msgNoMana))
	}
	p.Mana -= spell.Cost

	if spell.Effect == SpellHeal {
		heal := max(0, min(p.Intelligence+5, p.MaxHealth-p.Health))
		p.Health += heal
		b.Log = e.log(b.Log, e.sprintf(msgHeal, spell.Name, heal))
		b.Phase = PhaseMonsterTurn
		return TurnResult{Battle: b, Player: p}
	}

	d := Derived(p, e.Catalog)
	dmg := e.Catalog.Rules.Damage(d.Intelligence, b.Monster.Defense, e.roller())
	b.Monster.Health = max(0, b.Monster.Health-dmg)
	b.Log = e.log(b.Log,
		e.sprintf(msgCast, spell.Name),
		e.sprintf(msgMagicHit, b.Monster.Name, dmg),
	)
	return e.afterStrike(b, p)
}

// afterStrike ends the battle in victory when the monster is down, skipping
// its turn, and otherwise hands the turn to the monster.
func (e *Engine) afterStrike(b Battle, p Player) TurnResult {
	if b.Monster.Health > 0 {
		b.Phase = PhaseMonsterTurn
		return TurnResult{Battle: b, Player: p}
	}

	rules := e.Catalog.Rules
	p, leveled := ApplyVictory(p, b.Monster, rules)
	msgs := []string{
		e.sprintf(msgDefeated, b.Monster.Name),
		e.sprintf(msgRewards, b.Monster.Experience, b.Monster.Gold),
	}
	if leveled {
		msgs = append(msgs, e.sprintf(msgLevelUp, p.Level, rules.SkillPointsPerLevel))
	}
	b.Log = e.log(b.Log, msgs...)
	b.Phase = PhaseEnded
	b.Outcome = OutcomeVictory
	return TurnResult{Battle: b, Player: p, LevelUp: leveled}
}

func (e *Engine) flee(b Battle, p Player) TurnResult {
	if e.roller().Intn(100) >= 100-e.Catalog.Rules.FleeChance {
		b.Log = e.log(b.Log, e.sprintf(msgFled))
		b.Phase = PhaseEnded
		b.Outcome = OutcomeFled
		return TurnResult{Battle: b, Player: p}
	}
	b.Log = e.log(b.Log, e.sprintf(msgFleeFailed))
	b.Phase = PhaseMonsterTurn
	return TurnResult{Battle: b, Player: p}
}

// MonsterTurn resolves the monster's single attack. Player defense is not
// applied to incoming damage.
func (e *Engine) MonsterTurn(b Battle, p Player) TurnResult {
	switch b.Phase {
	case PhaseEnded:
		return rejected(b, p, e.sprintf(msgBattleOver))
	case PhasePlayerTurn:
		return rejected(b, p, e.sprintf(msgNotTheirTurn))
	}

	dmg := e.Catalog.Rules.Damage(b.Monster.Attack, 0, e.roller())
	p.Health = max(0, p.Health-dmg)
	b.Log = e.log(b.Log, e.sprintf(msgMonsterHit, b.Monster.Name, dmg))
	if p.Health == 0 {
		b.Log = e.log(b.Log, e.sprintf(msgPlayerDown))
		b.Phase = PhaseEnded
		b.Outcome = OutcomeDefeat
		return TurnResult{Battle: b, Player: p}
	}
	b.Phase = PhasePlayerTurn
	return TurnResult{Battle: b, Player: p}
}

// Resolve applies the player's move and, when it hands over the turn,
// the monster's reply. It is the synchronous path for callers that do
// not pace the monster turn themselves.
func (e *Engine) Resolve(b Battle, p Player, a Action) []TurnResult {
	first := e.Act(b, p, a)
	if first.Rejected != "" || first.Battle.Phase != PhaseMonsterTurn {
		return []TurnResult{first}
	}
	return []TurnResult{first, e.MonsterTurn(first.Battle, first.Player)}
}
