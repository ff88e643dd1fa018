// Package protocol defines the JSON envelopes exchanged on the battle websocket.
package protocol

import (
	"encoding/json"

	"anomarpg/internal/game"
)

// Envelope wraps every websocket message: T names the payload type, P holds it.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// Client -> server
const (
	TypeStart  = "start"
	TypeAction = "action"
	TypeLeave  = "leave"
)

// Server -> client
const (
	TypeState    = "state"
	TypeRejected = "rejected"
	TypeError    = "error"
)

// Step names which side's move produced a state message.
const (
	StepStart   = "start"
	StepPlayer  = "player"
	StepMonster = "monster"
	StepLeave   = "leave"
)

// Start asks for a battle; the running one is returned if there is one.
type Start struct {
	Companion *bool `json:"companion,omitempty"`
}

// State is sent after every accepted transition. SettleMs is set once the
// battle has ended and tells the client how long to linger on the result.
type State struct {
	Step     string            `json:"step"`
	Battle   game.Battle       `json:"battle"`
	Player   game.Player       `json:"player"`
	Derived  game.DerivedStats `json:"derived"`
	LevelUp  bool              `json:"levelUp,omitempty"`
	SettleMs int64             `json:"settleMs,omitempty"`
}

// Rejected reports an ignored action; no state changed.
type Rejected struct {
	Reason string `json:"reason"`
}

// Error reports a malformed message or a server-side failure.
type Error struct {
	Message string `json:"message"`
}
