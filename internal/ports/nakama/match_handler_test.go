package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"caravan/internal/app"
	"caravan/internal/config"
	"caravan/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) byOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.messages {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

func (md *mockDispatcher) reset() {
	md.messages = nil
	md.labels = nil
}

type testPresence struct {
	runtime.Presence
	userID string
}

func (p testPresence) GetUserId() string    { return p.userID }
func (p testPresence) GetUsername() string  { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }

type testMatchData struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m testMatchData) GetUserId() string { return m.userID }
func (m testMatchData) GetOpCode() int64  { return m.opCode }
func (m testMatchData) GetData() []byte   { return m.data }

func testConfig(minDelay, maxDelay int) *config.Config {
	cfg := config.Default()
	cfg.Bot.Level = "random"
	cfg.Bot.MinDelayTicks = minDelay
	cfg.Bot.MaxDelayTicks = maxDelay
	cfg.Engine.Strict = true
	return cfg
}

// newSeatedMatch creates a match and seats user-1.
func newSeatedMatch(t *testing.T, cfg *config.Config) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	handler := &matchHandler{cfg: cfg}
	dispatcher := &mockDispatcher{}
	ctx := context.Background()

	raw, rate, label := handler.MatchInit(ctx, noopLogger{}, nil, nil, map[string]interface{}{})
	state, ok := raw.(*MatchState)
	if !ok || rate != tickRate || label == "" {
		t.Fatalf("MatchInit returned %T, %d, %q", raw, rate, label)
	}

	presence := testPresence{userID: "user-1"}
	if _, ok, reason := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, presence, nil); !ok {
		t.Fatalf("join rejected: %s", reason)
	}
	handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{presence})
	return handler, state, dispatcher
}

func loop(handler *matchHandler, state *MatchState, dispatcher *mockDispatcher, tick int64, msgs ...runtime.MatchData) interface{} {
	return handler.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, tick, state, msgs)
}

func send(op int64, payload interface{}) runtime.MatchData {
	var data []byte
	switch p := payload.(type) {
	case nil:
	case []byte:
		data = p
	default:
		data, _ = json.Marshal(p)
	}
	return testMatchData{userID: "user-1", opCode: op, data: data}
}

func decodeLabel(t *testing.T, label string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(label), &out); err != nil {
		t.Fatalf("label %q is not JSON: %v", label, err)
	}
	return out
}

func lastError(t *testing.T, md *mockDispatcher) ErrorMessage {
	t.Helper()
	errs := md.byOp(OpGameError)
	if len(errs) == 0 {
		t.Fatalf("no OpGameError sent")
	}
	var msg ErrorMessage
	if err := json.Unmarshal(errs[len(errs)-1].data, &msg); err != nil {
		t.Fatalf("bad error payload: %v", err)
	}
	return msg
}

func TestMatchInit_Label(t *testing.T) {
	handler := &matchHandler{cfg: testConfig(1, 1)}
	raw, _, label := handler.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"bot_level": "smart"})
	state := raw.(*MatchState)

	got := decodeLabel(t, label)
	if got["game"] != MatchLabelGame || got["open"] != true || got["phase"] != "lobby" || got["bot_level"] != "smart" {
		t.Fatalf("unexpected label: %v", got)
	}
	if state.Bot == nil || state.App == nil || state.Game != nil {
		t.Fatalf("state not initialised: %+v", state)
	}
}

func TestMatchJoin_SoloSeat(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(1, 1))
	ctx := context.Background()

	if state.HumanID != "user-1" {
		t.Fatalf("HumanID = %q", state.HumanID)
	}
	if got := decodeLabel(t, dispatcher.labels[len(dispatcher.labels)-1]); got["open"] != false {
		t.Fatalf("label still open after join: %v", got)
	}
	if _, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, testPresence{userID: "user-2"}, nil); ok {
		t.Fatalf("second human admitted")
	}
	if _, ok, _ := handler.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, testPresence{userID: "user-1"}, nil); !ok {
		t.Fatalf("reconnect rejected")
	}
	if got := handler.MatchLeave(ctx, noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{testPresence{userID: "user-1"}}); got != nil {
		t.Fatalf("match not terminated after the human left")
	}
}

func TestStartGame_SendsPrivateHand(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(100, 100))
	dispatcher.reset()

	loop(handler, state, dispatcher, 1, send(OpStartGame, nil))

	if state.Game == nil || state.Rounds != 1 {
		t.Fatalf("round not started")
	}
	events := dispatcher.byOp(OpEvents)
	if len(events) != 1 {
		t.Fatalf("expected one OpEvents message, got %d", len(events))
	}
	var decoded []struct {
		Kind    app.EventKind   `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(events[0].data, &decoded); err != nil {
		t.Fatalf("bad events payload: %v", err)
	}
	dealt := 0
	for _, ev := range decoded {
		if ev.Kind != app.EventHandDealt {
			continue
		}
		dealt++
		var p app.HandDealtPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			t.Fatalf("bad hand_dealt payload: %v", err)
		}
		if p.Player != domain.PlayerOne || len(p.Hand) != domain.OpeningHandSize {
			t.Fatalf("human received %+v", p)
		}
	}
	if dealt != 1 {
		t.Fatalf("human saw %d hand_dealt events, want 1", dealt)
	}

	snaps := dispatcher.byOp(OpSnapshot)
	if len(snaps) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(snaps))
	}
	var snap SnapshotMessage
	if err := json.Unmarshal(snaps[0].data, &snap); err != nil {
		t.Fatalf("bad snapshot payload: %v", err)
	}
	bot := snap.Snapshot.Players[1]
	if bot.Hand != nil || bot.HandSize != domain.OpeningHandSize {
		t.Fatalf("bot hand not masked: %+v", bot)
	}
	if len(snap.Snapshot.Players[0].Hand) != domain.OpeningHandSize || len(snap.Legal) == 0 {
		t.Fatalf("human view incomplete: %+v", snap.Snapshot.Players[0])
	}

	dispatcher.reset()
	loop(handler, state, dispatcher, 2, send(OpStartGame, nil))
	if msg := lastError(t, dispatcher); msg.Code != CodeBadRequest {
		t.Fatalf("restart during a round: %+v", msg)
	}
}

func TestStartGame_CustomDeck(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(100, 100))

	loop(handler, state, dispatcher, 1, send(OpStartGame, StartGameRequest{Deck: []domain.Card{{ID: "x", Rank: domain.RankTwo, Suit: domain.SuitClubs}}}))
	if state.Game != nil {
		t.Fatalf("short custom deck accepted")
	}
	if msg := lastError(t, dispatcher); msg.Code != CodeIllegalMove {
		t.Fatalf("invalid deck error = %+v", msg)
	}
}

func TestPlayAction_Errors(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(100, 100))

	loop(handler, state, dispatcher, 1, send(OpPlayAction, domain.Action{Kind: domain.ActionDiscard, Card: "x"}))
	if msg := lastError(t, dispatcher); msg.Code != CodeBadRequest || msg.Message != "game not started" {
		t.Fatalf("action before start: %+v", msg)
	}

	loop(handler, state, dispatcher, 2, send(OpStartGame, nil))

	tests := []struct {
		name string
		data interface{}
		code int
	}{
		{"malformed json", []byte("{"), CodeBadRequest},
		{"missing kind", []byte(`{"card_id":"x"}`), CodeBadRequest},
		{"card not in hand", domain.Action{Kind: domain.ActionPlay, Card: "nope", Target: "p1-A"}, CodeIllegalMove},
		{"discard during opening", domain.Action{Kind: domain.ActionDiscard, Card: state.Game.Players[0].Hand[0].ID}, CodeIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher.reset()
			loop(handler, state, dispatcher, 3, send(OpPlayAction, tt.data))
			if msg := lastError(t, dispatcher); msg.Code != tt.code {
				t.Fatalf("error = %+v, want code %d", msg, tt.code)
			}
			if state.Game.Turn != 0 {
				t.Fatalf("rejected action changed the game")
			}
		})
	}

	state.Game.Active = domain.PlayerTwo
	dispatcher.reset()
	loop(handler, state, dispatcher, 4, send(OpPlayAction, domain.LegalActions(state.Game, domain.PlayerOne)[0]))
	if msg := lastError(t, dispatcher); msg.Code != CodeNotYourTurn {
		t.Fatalf("out of turn error = %+v", msg)
	}
}

func TestMatchLoop_IgnoresStrangers(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(100, 100))
	loop(handler, state, dispatcher, 1, testMatchData{userID: "user-2", opCode: OpStartGame})
	if state.Game != nil {
		t.Fatalf("an unseated user started the round")
	}
}

func TestProcessBot_WaitsForDelay(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(2, 2))
	loop(handler, state, dispatcher, 1, send(OpStartGame, nil))

	first := domain.LegalActions(state.Game, domain.PlayerOne)[0]
	loop(handler, state, dispatcher, 10, send(OpPlayAction, first))
	if state.Game.Turn != 1 || state.Game.Active != domain.PlayerTwo {
		t.Fatalf("human move not applied: turn %d, active %s", state.Game.Turn, state.Game.Active)
	}
	if state.BotWaitUntil != 12 {
		t.Fatalf("BotWaitUntil = %d, want 12", state.BotWaitUntil)
	}

	loop(handler, state, dispatcher, 11)
	if state.Game.Turn != 1 {
		t.Fatalf("bot acted before its delay")
	}
	loop(handler, state, dispatcher, 12)
	if state.Game.Turn != 2 || state.Game.Active != domain.PlayerOne {
		t.Fatalf("bot did not act: turn %d, active %s", state.Game.Turn, state.Game.Active)
	}
}

func TestMatchLoop_PlaysRound(t *testing.T) {
	handler, state, dispatcher := newSeatedMatch(t, testConfig(0, 0))
	loop(handler, state, dispatcher, 1, send(OpStartGame, nil))

	for tick := int64(2); tick < 600 && !state.Game.Over(); tick++ {
		var msgs []runtime.MatchData
		if state.Game.Active == domain.PlayerOne {
			legal := domain.LegalActions(state.Game, domain.PlayerOne)
			msgs = append(msgs, send(OpPlayAction, legal[len(legal)-1]))
		}
		loop(handler, state, dispatcher, tick, msgs...)
	}

	if errs := dispatcher.byOp(OpGameError); len(errs) != 0 {
		t.Fatalf("legal play produced errors: %s", errs[0].data)
	}
	if state.Game.Turn < 6 {
		t.Fatalf("round did not progress: turn %d", state.Game.Turn)
	}
	if err := state.Game.CheckInvariants(); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
	if state.Game.Over() && len(dispatcher.byOp(OpRoundOver)) != 1 {
		t.Fatalf("round over not announced")
	}
}

// fakeNakama records the NakamaModule calls the adapter makes.
type fakeNakama struct {
	runtime.NakamaModule
	counters map[string]int64
	gauges   map[string]float64
	matches  []*api.Match
	created  []map[string]interface{}
}

func (f *fakeNakama) MetricsCounterAdd(name string, tags map[string]string, delta int64) {
	if f.counters == nil {
		f.counters = make(map[string]int64)
	}
	for _, v := range tags {
		name += ":" + v
	}
	f.counters[name] += delta
}

func (f *fakeNakama) MetricsGaugeSet(name string, tags map[string]string, value float64) {
	if f.gauges == nil {
		f.gauges = make(map[string]float64)
	}
	f.gauges[name] = value
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	return f.matches, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, params)
	return "match-new", nil
}

func TestNakamaMetricsAdapter(t *testing.T) {
	nk := &fakeNakama{}
	m := NewNakamaMetricsAdapter(nk)
	m.ObserveAction("play", "applied")
	m.ObserveAction("play", "applied")
	m.ObserveRemoval("jack", 0)
	m.ObserveRemoval("joker", 4)
	m.ObserveRound("p2", 37)

	if got := nk.counters["caravan_actions:play:applied"] + nk.counters["caravan_actions:applied:play"]; got != 2 {
		t.Fatalf("actions counter = %d", got)
	}
	if _, ok := nk.counters["caravan_cards_removed:jack"]; ok {
		t.Fatalf("empty removal recorded")
	}
	if nk.counters["caravan_cards_removed:joker"] != 4 || nk.counters["caravan_rounds:p2"] != 1 {
		t.Fatalf("counters = %v", nk.counters)
	}
	if nk.gauges["caravan_round_turns"] != 37 {
		t.Fatalf("gauges = %v", nk.gauges)
	}
}

func TestRpcQuickMatch(t *testing.T) {
	ctx := context.Background()

	nk := &fakeNakama{}
	out, err := rpcQuickMatch(ctx, noopLogger{}, nil, nk, `{"bot_level":"hard"}`)
	if err != nil {
		t.Fatalf("rpcQuickMatch failed: %v", err)
	}
	var resp QuickMatchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if !resp.IsNew || resp.MatchID != "match-new" || resp.BotLevel != "smart" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(nk.created) != 1 || nk.created[0]["bot_level"] != "smart" {
		t.Fatalf("match created with %v", nk.created)
	}

	nk = &fakeNakama{matches: []*api.Match{{MatchId: "match-open"}}}
	out, err = rpcQuickMatch(ctx, noopLogger{}, nil, nk, "")
	if err != nil {
		t.Fatalf("rpcQuickMatch failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.IsNew || resp.MatchID != "match-open" || len(nk.created) != 0 {
		t.Fatalf("open match not reused: %+v", resp)
	}

	if _, err := rpcQuickMatch(ctx, noopLogger{}, nil, nk, `{"bot_level":"godlike"}`); err == nil {
		t.Fatalf("unknown bot level accepted")
	}
}

func TestRpcDraftPool(t *testing.T) {
	out, err := rpcDraftPool(context.Background(), noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("rpcDraftPool failed: %v", err)
	}
	var resp DraftPoolResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Cards) != domain.DraftPoolSize || resp.DeckSize != domain.CustomDeckSize {
		t.Fatalf("pool of %d cards, deck size %d", len(resp.Cards), resp.DeckSize)
	}
}
