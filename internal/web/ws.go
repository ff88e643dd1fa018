package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"anomarpg/internal/game"
	"anomarpg/internal/protocol"
)

const (
	wsReadLimit    = 1 << 16
	wsPongWait     = 60 * time.Second
	wsPingInterval = 25 * time.Second
	wsWriteWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// Same-origin browser client only; the cookie carries the session.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serialises writes; the ping loop and the battle loop both write.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(t string, payload any) error {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// GET /ws runs one battle channel per connection. Player moves are applied
// on arrival; when the turn passes to the monster the server waits
// Config.MonsterDelay, plays the monster's attack, and pushes a second state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_, id, err := s.getOrCreateState(ctx, w, r)
	if err != nil {
		http.Error(w, "failed to load state", http.StatusInternalServerError)
		return
	}

	// w.Header() carries the session cookie for first-time visitors.
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		log.Println("ws: upgrade:", err)
		return
	}
	defer conn.Close()
	c := &wsConn{conn: conn}

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.ping(); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("ws: session %s connected", shortID(id))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: session %s read: %v", shortID(id), err)
			}
			return
		}
		if err := s.handleWSMessage(ctx, c, id, msg); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("ws: session %s: %v", shortID(id), err)
			}
			return
		}
	}
}

// handleWSMessage processes one client envelope. Returned errors close the
// connection; protocol mistakes are reported to the client instead.
func (s *Server) handleWSMessage(ctx context.Context, c *wsConn, id string, msg []byte) error {
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return c.send(protocol.TypeError, protocol.Error{Message: err.Error()})
	}

	st, ok, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		st = game.NewState(s.Engine.Catalog)
	}

	if env.T == protocol.TypeStart || env.T == protocol.TypeAction {
		next, res, resumed := s.resumeMonsterTurn(st)
		if resumed {
			st = next
			if err := s.Store.Put(ctx, id, st); err != nil {
				return err
			}
			if err := c.send(protocol.TypeState, s.stateMsg(protocol.StepMonster, res)); err != nil {
				return err
			}
			// The late monster attack ended the battle; the move is void.
			if st.Battle == nil && env.T == protocol.TypeAction {
				return nil
			}
		}
	}

	switch env.T {
	case protocol.TypeStart:
		req, err := protocol.DecodePayload[protocol.Start](env)
		if err != nil {
			return c.send(protocol.TypeError, protocol.Error{Message: err.Error()})
		}
		if st.Battle == nil {
			if req.Companion != nil {
				st.Companion = *req.Companion
			}
			if st.Player.Health <= 0 {
				return c.send(protocol.TypeRejected, protocol.Rejected{Reason: "player is down"})
			}
			b := s.Engine.StartBattle(st.Companion)
			st.Battle = &b
			if err := s.Store.Put(ctx, id, st); err != nil {
				return err
			}
		}
		return c.send(protocol.TypeState, s.stateMsg(protocol.StepStart, game.TurnResult{Battle: *st.Battle, Player: st.Player}))

	case protocol.TypeLeave:
		if st.Battle == nil {
			return c.send(protocol.TypeRejected, protocol.Rejected{Reason: "no battle in progress"})
		}
		left := *st.Battle
		st.Battle = nil
		if err := s.Store.Put(ctx, id, st); err != nil {
			return err
		}
		return c.send(protocol.TypeState, s.stateMsg(protocol.StepLeave, game.TurnResult{Battle: left, Player: st.Player}))

	case protocol.TypeAction:
		a, err := protocol.DecodePayload[game.Action](env)
		if err != nil {
			return c.send(protocol.TypeError, protocol.Error{Message: err.Error()})
		}
		if st.Battle == nil {
			return c.send(protocol.TypeRejected, protocol.Rejected{Reason: "no battle in progress"})
		}
		res := s.Engine.Act(*st.Battle, st.Player, a)
		if res.Rejected != "" {
			return c.send(protocol.TypeRejected, protocol.Rejected{Reason: res.Rejected})
		}
		st = st.Apply(res)
		if err := s.Store.Put(ctx, id, st); err != nil {
			return err
		}
		if err := c.send(protocol.TypeState, s.stateMsg(protocol.StepPlayer, res)); err != nil {
			return err
		}
		if res.Battle.Phase != game.PhaseMonsterTurn {
			return nil
		}

		if err := sleepCtx(ctx, s.Config.MonsterDelay); err != nil {
			return err
		}
		res = s.Engine.MonsterTurn(res.Battle, res.Player)
		st = st.Apply(res)
		if err := s.Store.Put(ctx, id, st); err != nil {
			return err
		}
		return c.send(protocol.TypeState, s.stateMsg(protocol.StepMonster, res))

	default:
		return c.send(protocol.TypeError, protocol.Error{Message: "unknown message type " + env.T})
	}
}

func (s *Server) stateMsg(step string, res game.TurnResult) protocol.State {
	m := protocol.State{
		Step:    step,
		Battle:  res.Battle,
		Player:  res.Player,
		Derived: game.Derived(res.Player, s.Engine.Catalog),
		LevelUp: res.LevelUp,
	}
	if res.Battle.Ended() {
		m.SettleMs = s.Config.SettleDelay.Milliseconds()
	}
	return m
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
