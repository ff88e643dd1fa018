package game

// State is everything a session keeps between requests: the player snapshot,
// whether the companion has joined, and the battle in progress if any.
type State struct {
	Player        Player   `json:"player"`
	Companion     bool     `json:"companion"`
	Battle        *Battle  `json:"battle,omitempty"`
	LastBattleLog []string `json:"lastBattleLog,omitempty"`
}

// NewState returns a fresh game for the catalog's starting player.
func NewState(c *Catalog) State {
	return State{Player: NewPlayer(c)}
}

// Apply stores a turn result. An ended battle is dropped from the state and
// only its log is kept; the caller still has the battle in the TurnResult to
// report the outcome.
func (s State) Apply(res TurnResult) State {
	s.Player = res.Player
	if res.Battle.Ended() {
		s.Battle = nil
		s.LastBattleLog = res.Battle.Log
		return s
	}
	b := res.Battle
	s.Battle = &b
	return s
}
