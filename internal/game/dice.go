package game

import (
	"crypto/rand"
	"encoding/binary"
)

// Roller is the source of randomness for battles. Intn returns a value in [0, n).
type Roller interface {
	Intn(n int) int
}

// CryptoRoller draws from crypto/rand; plenty for a battle.
type CryptoRoller struct{}

func (CryptoRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int(binary.LittleEndian.Uint64(b[:]) % uint64(n))
}

// Damage is offense minus defense plus a uniform term in [-spread, +spread],
// never less than minDamage.
func (r Rules) Damage(offense, defense int, roll Roller) int {
	spread := r.DamageSpread
	dmg := offense - defense + roll.Intn(2*spread+1) - spread
	if dmg < r.MinDamage {
		return r.MinDamage
	}
	return dmg
}

// Damage applies the default rules: max(1, offense - defense + [-2..2]).
func Damage(offense, defense int, roll Roller) int {
	return DefaultRules().Damage(offense, defense, roll)
}
