package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"anomarpg/internal/config"
	"anomarpg/internal/game"
	"anomarpg/internal/session"
)

type Server struct {
	Engine *game.Engine
	Store  session.Store[game.State]
	Config config.Config
}

const cookieName = "anoma_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/player", s.handlePlayer)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/player/train", s.handleInventory(trainSkill))

	mux.HandleFunc("/battle", s.handleBattle)
	mux.HandleFunc("/battle/action", s.handleBattleAction)
	mux.HandleFunc("/ws", s.handleWS)

	mux.HandleFunc("/inventory/use", s.handleInventory(useItem))
	mux.HandleFunc("/inventory/equip", s.handleInventory(equipItem))
	mux.HandleFunc("/inventory/unequip", s.handleInventory(unequipItem))
	mux.HandleFunc("/shop", s.handleShop)
	mux.HandleFunc("/shop/buy", s.handleInventory(buyItem))
	mux.HandleFunc("/shop/sell", s.handleInventory(sellItem))

	mux.HandleFunc("/sheet.pdf", s.handleSheet)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/player", http.StatusFound)
}

// getOrCreateState loads the caller's session, starting a new game (and
// cookie) when there is none.
func (s *Server) getOrCreateState(ctx context.Context, w http.ResponseWriter, r *http.Request) (game.State, string, error) {
	id := s.sessionID(r)
	if id == "" {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		st := game.NewState(s.Engine.Catalog)
		return st, id, s.Store.Put(ctx, id, st)
	}

	st, ok, err := s.Store.Get(ctx, id)
	if err != nil {
		return game.State{}, id, err
	}
	if !ok {
		st = game.NewState(s.Engine.Catalog)
		if err := s.Store.Put(ctx, id, st); err != nil {
			return game.State{}, id, err
		}
	}
	return st, id, nil
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// PlayerView is the player snapshot plus equipment-derived totals.
type PlayerView struct {
	Player    game.Player       `json:"player"`
	Derived   game.DerivedStats `json:"derived"`
	Companion bool              `json:"companion"`
	InBattle  bool              `json:"inBattle"`
	OK        *bool             `json:"ok,omitempty"`
}

func (s *Server) playerView(st game.State) PlayerView {
	return PlayerView{
		Player:    st.Player,
		Derived:   game.Derived(st.Player, s.Engine.Catalog),
		Companion: st.Companion,
		InBattle:  st.Battle != nil,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

// GET /player
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, _, err := s.getOrCreateState(r.Context(), w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.playerView(st))
}

// POST /reset starts the game over from the catalog's starting player.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, id, err := s.getOrCreateState(r.Context(), w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		http.Error(w, "failed to reset state", http.StatusInternalServerError)
		return
	}
	st := game.NewState(s.Engine.Catalog)
	if err := s.Store.Put(r.Context(), id, st); err != nil {
		http.Error(w, "failed to save state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.playerView(st))
}
