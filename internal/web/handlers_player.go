package web

import (
	"net/http"

	"anomarpg/internal/game"
	"anomarpg/internal/sheet"
)

// inventoryOp binds a pack or shop transaction to the form field it reads.
type inventoryOp struct {
	field string
	apply func(p game.Player, c *game.Catalog, v string) (game.Player, bool)
}

var (
	useItem     = inventoryOp{field: "item", apply: game.UseItem}
	equipItem   = inventoryOp{field: "item", apply: game.Equip}
	unequipItem = inventoryOp{field: "slot", apply: func(p game.Player, _ *game.Catalog, slot string) (game.Player, bool) {
		return game.Unequip(p, slot)
	}}
	buyItem    = inventoryOp{field: "item", apply: game.Buy}
	sellItem   = inventoryOp{field: "item", apply: game.Sell}
	trainSkill = inventoryOp{field: "attr", apply: func(p game.Player, _ *game.Catalog, attr string) (game.Player, bool) {
		return game.SpendSkillPoint(p, attr)
	}}
)

// handleInventory serves POST /inventory/*, /shop/{buy,sell} and
// /player/train. A transaction that does not apply (missing item, not enough
// gold...) answers 200 with ok=false and the unchanged player. All of them
// are closed mid-battle.
func (s *Server) handleInventory(op inventoryOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		if st.Battle != nil {
			http.Error(w, "not during a battle", http.StatusConflict)
			return
		}

		p, ok := op.apply(st.Player, s.Engine.Catalog, r.FormValue(op.field))
		if ok {
			st.Player = p
			if err := s.Store.Put(ctx, id, st); err != nil {
				http.Error(w, "failed to save state", http.StatusInternalServerError)
				return
			}
		}
		vm := s.playerView(st)
		vm.OK = &ok
		writeJSON(w, http.StatusOK, vm)
	}
}

// ShopItem is one line of GET /shop.
type ShopItem struct {
	game.ShopEntry
	Type        game.ItemType `json:"type"`
	Description string        `json:"description"`
	SellPrice   int           `json:"sellPrice"`
}

// GET /shop
func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.Engine.Catalog
	out := make([]ShopItem, 0, len(c.Shop))
	for _, e := range c.Shop {
		it := c.Items[e.Item]
		out = append(out, ShopItem{
			ShopEntry:   e,
			Type:        it.Type,
			Description: it.Description,
			SellPrice:   e.Price / 2,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /sheet.pdf
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, _, err := s.getOrCreateState(r.Context(), w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}
	battleLog := st.LastBattleLog
	if st.Battle != nil {
		battleLog = st.Battle.Log
	}
	pdf, err := sheet.Generate(st, s.Engine.Catalog, battleLog, sheet.Options{FontPath: s.Config.SheetFont})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="character-sheet.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
