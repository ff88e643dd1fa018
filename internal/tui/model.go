// Package tui is a terminal front end for the battle engine.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"anomarpg/internal/game"
)

type Model struct {
	Engine       *game.Engine
	State        game.State
	MonsterDelay time.Duration

	// Shown is the battle on screen. It outlives State.Battle so the final
	// log stays visible until the next battle starts.
	Shown    *game.Battle
	Waiting  bool
	Notice   string
	Quitting bool
	Spinner  spinner.Model
}

type monsterTurnMsg struct{}

var trainKeys = map[string]string{
	"S": game.AttrStrength,
	"A": game.AttrAgility,
	"I": game.AttrIntelligence,
	"C": game.AttrConstitution,
}

func NewModel(e *game.Engine, monsterDelay time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		Engine:       e,
		State:        game.NewState(e.Catalog),
		MonsterDelay: monsterDelay,
		Spinner:      s,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case monsterTurnMsg:
		m.Waiting = false
		if m.Shown == nil {
			return m, nil
		}
		m.apply(m.Engine.MonsterTurn(*m.Shown, m.State.Player))
		return m, nil
	case spinner.TickMsg:
		if m.Waiting {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}
	// Keys are ignored while the monster is acting.
	if m.Waiting {
		return m, nil
	}
	m.Notice = ""

	if m.State.Battle == nil {
		switch key {
		case "n":
			if m.State.Player.Health <= 0 {
				m.Notice = "You are too weak to fight. Press [r] to start over."
				return m, nil
			}
			b := m.Engine.StartBattle(m.State.Companion)
			m.State.Battle = &b
			m.Shown = &b
		case "c":
			m.State.Companion = !m.State.Companion
		case "r":
			m.State = game.NewState(m.Engine.Catalog)
			m.Shown = nil
		case "S", "A", "I", "C":
			p, ok := game.SpendSkillPoint(m.State.Player, trainKeys[key])
			if !ok {
				m.Notice = "No skill points to spend."
				return m, nil
			}
			m.State.Player = p
		}
		return m, nil
	}

	var a game.Action
	switch {
	case key == "a":
		a = game.Action{Kind: game.ActionAttack}
	case key == "f":
		a = game.Action{Kind: game.ActionFlee}
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		i := int(key[0] - '1')
		if i >= len(m.State.Player.Spells) {
			return m, nil
		}
		a = game.Action{Kind: game.ActionSpell, Spell: m.State.Player.Spells[i]}
	default:
		return m, nil
	}

	res := m.Engine.Act(*m.State.Battle, m.State.Player, a)
	if res.Rejected != "" {
		m.Notice = res.Rejected
		return m, nil
	}
	m.apply(res)
	if res.Battle.Phase != game.PhaseMonsterTurn {
		return m, nil
	}
	m.Waiting = true
	return m, tea.Batch(
		tea.Tick(m.MonsterDelay, func(time.Time) tea.Msg { return monsterTurnMsg{} }),
		m.Spinner.Tick,
	)
}

func (m *Model) apply(res game.TurnResult) {
	if res.Rejected != "" {
		m.Notice = res.Rejected
		return
	}
	m.State = m.State.Apply(res)
	b := res.Battle
	m.Shown = &b
	if res.LevelUp {
		m.Notice = fmt.Sprintf("Level up! You are now level %d.", res.Player.Level)
	}
}

func (m Model) View() string {
	if m.Quitting {
		return "Goodbye\n"
	}
	p := m.State.Player
	d := game.Derived(p, m.Engine.Catalog)

	var sb strings.Builder
	sb.WriteString("-- Anoma RPG --\n")
	fmt.Fprintf(&sb, "%s  Lv %d  EXP %d/%d  Gold %d  SP %d\n",
		p.Name, p.Level, p.Experience, p.ExperienceToNext, p.Gold, p.SkillPoints)
	fmt.Fprintf(&sb, "HP %d/%d  MP %d/%d  ATK %d  DEF %d  INT %d\n",
		p.Health, p.MaxHealth, p.Mana, p.MaxMana, d.Attack, d.Defense, d.Intelligence)
	if m.State.Companion {
		sb.WriteString("A companion walks beside you.\n")
	}
	sb.WriteString("\n")

	if m.Shown != nil {
		mon := m.Shown.Monster
		fmt.Fprintf(&sb, "Enemy: %s  HP %d/%d\n", mon.Name, mon.Health, mon.MaxHealth)
		if mon.Description != "" {
			fmt.Fprintf(&sb, "%s\n", mon.Description)
		}
		for _, line := range m.Shown.Log {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
		sb.WriteString("\n")
	}

	if m.Notice != "" {
		fmt.Fprintf(&sb, "%s\n\n", m.Notice)
	}

	switch {
	case m.Waiting:
		fmt.Fprintf(&sb, "%s The enemy is moving...\n", m.Spinner.View())
	case m.State.Battle != nil:
		sb.WriteString("[a] Attack  ")
		for i, name := range p.Spells {
			if i >= 9 {
				break
			}
			cost := 0
			if sp, ok := m.Engine.Catalog.Spells[name]; ok {
				cost = sp.Cost
			}
			fmt.Fprintf(&sb, "[%d] %s (%d)  ", i+1, name, cost)
		}
		sb.WriteString("[f] Flee  [q] Quit\n")
	default:
		sb.WriteString("[n] New battle  [c] Toggle companion  [r] Restart  [q] Quit\n")
		if p.SkillPoints > 0 {
			sb.WriteString("Train: [S] Strength  [A] Agility  [I] Intelligence  [C] Constitution\n")
		}
	}
	return sb.String()
}
