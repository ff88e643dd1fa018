package web

import (
	"net/http"
	"strconv"

	"anomarpg/internal/game"
)

// BattleView is the response for GET/POST /battle.
type BattleView struct {
	Battle  game.Battle       `json:"battle"`
	Player  game.Player       `json:"player"`
	Derived game.DerivedStats `json:"derived"`
}

// ActionResponse lists every transition one request produced: the player's
// step and, when the turn passed over, the monster's reply.
type ActionResponse struct {
	Steps    []game.TurnResult `json:"steps"`
	Outcome  game.Outcome      `json:"outcome,omitempty"`
	Rejected string            `json:"rejected,omitempty"`
	SettleMs int64             `json:"settleMs,omitempty"`
}

// /battle: GET shows the running battle, POST starts one (or returns the
// running one), DELETE abandons it.
func (s *Server) handleBattle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, id, err := s.getOrCreateState(ctx, w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if st.Battle == nil {
			http.Error(w, "no battle in progress", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, s.battleView(st))

	case http.MethodPost:
		if st.Battle != nil {
			writeJSON(w, http.StatusOK, s.battleView(st))
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if v := r.FormValue("companion"); v != "" {
			present, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "bad companion flag", http.StatusBadRequest)
				return
			}
			st.Companion = present
		}
		if st.Player.Health <= 0 {
			http.Error(w, "player is down", http.StatusConflict)
			return
		}
		b := s.Engine.StartBattle(st.Companion)
		st.Battle = &b
		if err := s.Store.Put(ctx, id, st); err != nil {
			http.Error(w, "failed to save state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, s.battleView(st))

	case http.MethodDelete:
		st.Battle = nil
		if err := s.Store.Put(ctx, id, st); err != nil {
			http.Error(w, "failed to save state", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) battleView(st game.State) BattleView {
	return BattleView{
		Battle:  *st.Battle,
		Player:  st.Player,
		Derived: game.Derived(st.Player, s.Engine.Catalog),
	}
}

// POST /battle/action (form: action=attack|spell|flee, spell=<name>)
func (s *Server) handleBattleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	st, id, err := s.getOrCreateState(ctx, w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if st.Battle == nil {
		http.Error(w, "no battle in progress", http.StatusNotFound)
		return
	}

	a := game.Action{
		Kind:  game.ActionKind(r.FormValue("action")),
		Spell: r.FormValue("spell"),
	}

	var resp ActionResponse
	st, pending, resumed := s.resumeMonsterTurn(st)
	if resumed {
		resp.Steps = append(resp.Steps, pending)
	}
	if st.Battle != nil {
		steps := s.Engine.Resolve(*st.Battle, st.Player, a)
		resp.Steps = append(resp.Steps, steps...)
		last := steps[len(steps)-1]
		if last.Rejected != "" {
			resp.Rejected = last.Rejected
		} else {
			st = st.Apply(last)
		}
	}

	if resumed || resp.Rejected == "" {
		if err := s.Store.Put(ctx, id, st); err != nil {
			http.Error(w, "failed to save state", http.StatusInternalServerError)
			return
		}
	}
	if final := resp.Steps[len(resp.Steps)-1]; final.Rejected == "" && final.Battle.Ended() {
		resp.Outcome = final.Battle.Outcome
		resp.SettleMs = s.Config.SettleDelay.Milliseconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

// resumeMonsterTurn plays a monster reply that was scheduled but never ran,
// e.g. when a /ws connection dropped during the delay. resumed is false when
// the battle was not waiting on the monster.
func (s *Server) resumeMonsterTurn(st game.State) (next game.State, res game.TurnResult, resumed bool) {
	if st.Battle == nil || st.Battle.Phase != game.PhaseMonsterTurn {
		return st, game.TurnResult{}, false
	}
	res = s.Engine.MonsterTurn(*st.Battle, st.Player)
	return st.Apply(res), res, true
}
