package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"anomarpg/internal/game"
	"anomarpg/internal/protocol"
)

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	conn, resp := dialWSHeader(t, srv, nil)
	if resp.Header.Get("Set-Cookie") == "" {
		t.Error("Expected session cookie on handshake")
	}
	return conn
}

func dialWSHeader(t *testing.T, srv *Server, h http.Header) (*websocket.Conn, *http.Response) {
	t.Helper()
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(u, h)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, resp
}

func sendWS(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	b, err := protocol.Encode(typ, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func readWS(t *testing.T, conn *websocket.Conn) protocol.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	return env
}

func readState(t *testing.T, conn *websocket.Conn, step string) protocol.State {
	t.Helper()
	env := readWS(t, conn)
	if env.T != protocol.TypeState {
		t.Fatalf("Expected %q message, got %q (%s)", protocol.TypeState, env.T, env.P)
	}
	st, err := protocol.DecodePayload[protocol.State](env)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if st.Step != step {
		t.Fatalf("Expected step %q, got %q", step, st.Step)
	}
	return st
}

func TestWS_BattleToVictory(t *testing.T) {
	conn := dialWS(t, testServer(t, 2))

	yes := true
	sendWS(t, conn, protocol.TypeStart, protocol.Start{Companion: &yes})
	st := readState(t, conn, protocol.StepStart)
	if st.Battle.Monster.Name != "Forest Slime" || !st.Battle.Companion {
		t.Fatalf("Unexpected opening battle %+v", st.Battle)
	}
	if st.Battle.Phase != game.PhasePlayerTurn {
		t.Errorf("Expected player turn, got %v", st.Battle.Phase)
	}

	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionAttack})
	st = readState(t, conn, protocol.StepPlayer)
	if st.Battle.Phase != game.PhaseMonsterTurn || st.Battle.Monster.Health != 14 {
		t.Fatalf("Expected monster turn with slime at 14, got %v %d", st.Battle.Phase, st.Battle.Monster.Health)
	}
	st = readState(t, conn, protocol.StepMonster)
	if st.Battle.Phase != game.PhasePlayerTurn || st.Player.Health != 92 {
		t.Fatalf("Expected player turn at 92 health, got %v %d", st.Battle.Phase, st.Player.Health)
	}

	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionAttack})
	st = readState(t, conn, protocol.StepPlayer)
	if st.Battle.Outcome != game.OutcomeVictory {
		t.Fatalf("Expected victory, got %q", st.Battle.Outcome)
	}
	if st.SettleMs == 0 {
		t.Error("Expected settleMs on the final state")
	}
	if st.Player.Experience != 15 || st.Player.Gold != 60 {
		t.Errorf("Expected rewards applied, got %d exp %d gold", st.Player.Experience, st.Player.Gold)
	}

	// The battle is over: further moves are rejected.
	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionAttack})
	if env := readWS(t, conn); env.T != protocol.TypeRejected {
		t.Errorf("Expected %q after the battle, got %q", protocol.TypeRejected, env.T)
	}
}

func TestWS_RejectionsAndErrors(t *testing.T) {
	conn := dialWS(t, testServer(t, 2))

	sendWS(t, conn, protocol.TypeLeave, protocol.Start{})
	if env := readWS(t, conn); env.T != protocol.TypeRejected {
		t.Errorf("leave without battle: expected %q, got %q", protocol.TypeRejected, env.T)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if env := readWS(t, conn); env.T != protocol.TypeError {
		t.Errorf("bad JSON: expected %q, got %q", protocol.TypeError, env.T)
	}

	sendWS(t, conn, "dance", protocol.Start{})
	if env := readWS(t, conn); env.T != protocol.TypeError {
		t.Errorf("unknown type: expected %q, got %q", protocol.TypeError, env.T)
	}

	sendWS(t, conn, protocol.TypeStart, protocol.Start{})
	readState(t, conn, protocol.StepStart)

	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionSpell, Spell: "Meteor"})
	env := readWS(t, conn)
	if env.T != protocol.TypeRejected {
		t.Fatalf("unknown spell: expected %q, got %q", protocol.TypeRejected, env.T)
	}
	rej, err := protocol.DecodePayload[protocol.Rejected](env)
	if err != nil || rej.Reason == "" {
		t.Errorf("Expected a rejection reason, got %+v (%v)", rej, err)
	}

	sendWS(t, conn, protocol.TypeLeave, protocol.Start{})
	st := readState(t, conn, protocol.StepLeave)
	if st.Battle.Ended() {
		t.Error("Expected the abandoned battle reported as it stood")
	}
}

func TestWS_FleeSucceeds(t *testing.T) {
	conn := dialWS(t, testServer(t, 99))

	sendWS(t, conn, protocol.TypeStart, protocol.Start{})
	st := readState(t, conn, protocol.StepStart)
	if st.Battle.Monster.Name != "Crystal Golem" {
		t.Fatalf("Expected the last catalog monster, got %q", st.Battle.Monster.Name)
	}

	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionFlee})
	st = readState(t, conn, protocol.StepPlayer)
	if st.Battle.Outcome != game.OutcomeFled {
		t.Errorf("Expected flee, got %q", st.Battle.Outcome)
	}
}

func TestWS_ResumesInterruptedMonsterTurn(t *testing.T) {
	srv := testServer(t, 2)
	id := seed(t, srv, stalledState(srv))
	conn, _ := dialWSHeader(t, srv, http.Header{"Cookie": {cookieName + "=" + id}})

	sendWS(t, conn, protocol.TypeAction, game.Action{Kind: game.ActionAttack})
	st := readState(t, conn, protocol.StepMonster)
	if st.Player.Health != 92 || st.Battle.Phase != game.PhasePlayerTurn {
		t.Fatalf("Expected the owed monster attack first, got health %d phase %v", st.Player.Health, st.Battle.Phase)
	}
	st = readState(t, conn, protocol.StepPlayer)
	if st.Battle.Outcome != game.OutcomeVictory {
		t.Errorf("Expected the attack to land after the monster turn, got %q", st.Battle.Outcome)
	}
}

func TestWS_StartResumesInterruptedMonsterTurn(t *testing.T) {
	srv := testServer(t, 2)
	id := seed(t, srv, stalledState(srv))
	conn, _ := dialWSHeader(t, srv, http.Header{"Cookie": {cookieName + "=" + id}})

	sendWS(t, conn, protocol.TypeStart, protocol.Start{})
	readState(t, conn, protocol.StepMonster)
	st := readState(t, conn, protocol.StepStart)
	if st.Battle.Phase != game.PhasePlayerTurn || st.Battle.Monster.Health != 14 {
		t.Errorf("Expected the running battle back on the player's turn, got %v %d", st.Battle.Phase, st.Battle.Monster.Health)
	}
}

func TestWS_CancelledDelayLeavesMonsterTurnPending(t *testing.T) {
	srv := testServer(t, 2)
	srv.Config.MonsterDelay = time.Hour
	st := game.NewState(srv.Engine.Catalog)
	b := srv.Engine.StartBattle(false)
	st.Battle = &b
	id := seed(t, srv, st)

	done := make(chan error, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		msg, _ := protocol.Encode(protocol.TypeAction, game.Action{Kind: game.ActionAttack})
		done <- srv.handleWSMessage(ctx, &wsConn{conn: conn}, id, msg)
	}))
	defer ts.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := <-done; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected the delay to be cut short, got %v", err)
	}
	if got := stored(t, srv, id); got.Battle.Phase != game.PhaseMonsterTurn {
		t.Fatalf("Expected the monster turn still owed, got %v", got.Battle.Phase)
	}

	// The next HTTP move settles the owed attack before the player's.
	resp := decode[ActionResponse](t, do(srv, http.MethodPost, "/battle/action", id, url.Values{"action": {"attack"}}))
	if resp.Rejected != "" {
		t.Fatalf("Expected the move accepted, got %q", resp.Rejected)
	}
	if resp.Outcome != game.OutcomeVictory {
		t.Errorf("Expected victory, got %q", resp.Outcome)
	}
}
