package nakama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"smor/internal/app"
	"smor/internal/bot"
	"smor/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
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
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent         []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.sent {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return false }
func (p mockPresence) GetUsername() string               { return p.username }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return 0 }
func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }

type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

func init() {
	if err := bot.LoadIdentities(""); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return s.AsMap()
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{name: "FirstHumanAfterBot", seats: []string{bot1, "user-1", "", ""}, want: 1},
		{name: "AllBots", seats: []string{bot1, bot2, "", ""}, want: -1},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: -1},
		{name: "FirstHumanIsSeatZero", seats: []string{"user-1", bot1, "user-2", ""}, want: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot3 := bot.GetBotIdentity(2).UserID

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{name: "BotsAndEmpty", seats: []string{bot1, "", bot3, ""}, want: true},
		{name: "HumansPresent", seats: []string{bot1, "user-1", "", ""}, want: false},
		{name: "AllEmpty", seats: []string{"", "", "", ""}, want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabel(t *testing.T) {
	tests := []struct {
		open  int
		phase string
	}{
		{3, "lobby"},
		{0, "playing"},
	}
	for _, test := range tests {
		t.Run(test.phase, func(t *testing.T) {
			label, err := matchLabel(test.open, test.phase)
			if err != nil {
				t.Fatalf("matchLabel: %v", err)
			}
			var got map[string]interface{}
			if err := json.Unmarshal([]byte(label), &got); err != nil {
				t.Fatalf("label is not JSON: %v", err)
			}
			if got["game"] != "smor" || got["phase"] != test.phase || got[MatchLabelKey_OpenSeats] != float64(test.open) {
				t.Fatalf("label = %s", label)
			}
		})
	}
}

func TestProcessBots_AddsTwoBotsForSoloHuman(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:                [4]string{"user-1", "", "", ""},
		Presences:            make(map[string]runtime.Presence),
		Names:                make(map[string]string),
		Bots:                 make(map[string]bot.BotLevel),
		BotLevel:             bot.BotLevelRandom,
		BotAutoFillDelay:     2,
		LastSinglePlayerTick: 8,
		Tick:                 20,
	}

	handler.processBots(state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
		}
	}
	if botCount != 2 || len(state.Bots) != 2 {
		t.Fatalf("Expected 2 bots, got %d (%d agents)", botCount, len(state.Bots))
	}
	if state.GetOpenSeatsCount() != 1 {
		t.Fatalf("Expected 1 open seat after auto-fill, got %d", state.GetOpenSeatsCount())
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
	if dispatcher.count(OpMatchState) == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected match state broadcast and label update after auto-fill")
	}
}

func TestProcessBots_WaitsForDelay(t *testing.T) {
	handler := &matchHandler{}
	state := &MatchState{
		Seats:            [4]string{"user-1", "", "", ""},
		Bots:             make(map[string]bot.BotLevel),
		Names:            make(map[string]string),
		BotAutoFillDelay: 2,
		Tick:             100,
	}
	handler.processBots(state, &mockDispatcher{}, noopLogger{})
	if state.LastSinglePlayerTick != 100 || state.GetOccupiedSeatCount() != 1 {
		t.Fatalf("first tick should only start the timer: %+v", state.Seats)
	}
	state.Tick = 100 + 2*tickRate - 1
	handler.processBots(state, &mockDispatcher{}, noopLogger{})
	if state.GetOccupiedSeatCount() != 1 {
		t.Fatalf("bots added before the delay passed")
	}
}

func TestParseResolveRequest(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]interface{}{
		"ticket":  "signed",
		"action":  "trade",
		"indices": []interface{}{0, 2},
		"index":   1,
	})
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	data, _ := proto.Marshal(msg)

	req, err := parseResolveRequest(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Ticket != "signed" || req.Choice.Action != app.ActionTrade || req.Choice.Index != 1 {
		t.Fatalf("request = %+v", req)
	}
	if len(req.Choice.Indices) != 2 || req.Choice.Indices[1] != 2 {
		t.Fatalf("indices = %v", req.Choice.Indices)
	}

	empty, _ := proto.Marshal(&structpb.Struct{})
	if _, err := parseResolveRequest(empty); err == nil {
		t.Fatalf("payload without decision id or ticket must be rejected")
	}
}

func TestSnapshotShowsOnlyOwnHand(t *testing.T) {
	snap := domain.Snapshot{
		GameID: "g1",
		Phase:  domain.PhaseFest,
		Players: []domain.PlayerView{
			{ID: "user-1", Name: "Ola", HandSize: 1, Hand: []domain.Card{{ID: "shot", Name: "Shot"}}},
			{ID: "user-2", Name: "Kari", HandSize: 1, Hand: []domain.Card{{ID: "water", Name: "Vann"}}},
		},
	}
	s, err := snapshotToStruct(snap, "user-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	players := s.AsMap()["players"].([]interface{})
	mine := players[0].(map[string]interface{})
	theirs := players[1].(map[string]interface{})
	if _, ok := mine["hand"]; !ok {
		t.Fatalf("viewer should see their own hand")
	}
	if _, ok := theirs["hand"]; ok {
		t.Fatalf("viewer must not see another player's hand")
	}
	if theirs["hand_size"] != float64(1) || s.AsMap()["phase"] != "Fest" {
		t.Fatalf("snapshot = %v", s.AsMap())
	}
}

func answerFor(decision map[string]interface{}) map[string]interface{} {
	answer := map[string]interface{}{"ticket": decision["ticket"], "index": 0}
	switch decision["kind"] {
	case string(app.DecisionTurn):
		answer["action"] = string(app.ActionPlay)
		answer["indices"] = []interface{}{0}
	case string(app.DecisionNPC):
		if decision["optional"] == true {
			answer["index"] = -1
		}
	}
	return answer
}

// Seats one human, lets bots fill the lobby and plays a whole game over match messages.
func TestMatchPlaysFullGameWithBots(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	env := map[string]string{EnvBotsEnabled: "true", EnvBotAutoFillDelay: "1", EnvTicketSecret: "test-secret"}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, env)

	raw, rate, label := handler.MatchInit(ctx, noopLogger{}, nil, nil, nil)
	if raw == nil || rate != tickRate || label == "" {
		t.Fatalf("MatchInit = %v, %d, %q", raw, rate, label)
	}
	state := raw.(*MatchState)
	human := mockPresence{userID: "user-1", username: "Ola"}
	state = handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{human}).(*MatchState)
	if state.OwnerSeat != 0 {
		t.Fatalf("owner seat = %d", state.OwnerSeat)
	}

	var tick int64 = 1
	for state.GetOccupiedSeatCount() < maxAutoFillSeats {
		tick++
		if tick > 100 {
			t.Fatalf("bots never joined")
		}
		state = handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, nil).(*MatchState)
	}

	start := mockMatchData{mockPresence: human, opCode: OpStartGame}
	inbox := []runtime.MatchData{start}
	seen := 0
	decisions := 0
	deadline := time.Now().Add(10 * time.Second)
	for {
		tick++
		state = handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, tick, state, inbox).(*MatchState)
		inbox = nil

		ended := false
		for _, m := range dispatcher.sent[seen:] {
			switch m.opCode {
			case OpDecision:
				if len(m.recipients) != 1 || m.recipients[0].GetUserId() != human.userID {
					t.Fatalf("decision sent to %v", m.recipients)
				}
				answer, err := structpb.NewStruct(answerFor(decode(t, m.data)))
				if err != nil {
					t.Fatalf("answer: %v", err)
				}
				data, _ := proto.Marshal(answer)
				inbox = append(inbox, mockMatchData{mockPresence: human, opCode: OpResolveDecision, data: data})
				decisions++
			case OpGameError:
				t.Fatalf("game error: %v", decode(t, m.data))
			case OpGameAborted:
				t.Fatalf("game aborted: %v", decode(t, m.data))
			case OpGameEnded:
				result := decode(t, m.data)
				if board := result["leaderboard"].([]interface{}); len(board) != 3 {
					t.Fatalf("leaderboard = %v", board)
				}
				ended = true
			}
		}
		seen = len(dispatcher.sent)

		if ended && state.Session == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("game did not finish")
		}
		time.Sleep(time.Millisecond)
	}

	if decisions == 0 || dispatcher.count(OpLogEntry) == 0 || dispatcher.count(OpSnapshot) == 0 {
		t.Fatalf("decisions %d logs %d snapshots %d", decisions, dispatcher.count(OpLogEntry), dispatcher.count(OpSnapshot))
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(dispatcher.lastLabel), &got); err != nil || got["phase"] != "lobby" {
		t.Fatalf("label after game = %s", dispatcher.lastLabel)
	}
}

func TestResolveFromAnotherPlayerIsRejected(t *testing.T) {
	handler := newMatchHandler()
	dispatcher := &mockDispatcher{}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{})
	state, _, _ := handler.MatchInit(ctx, noopLogger{}, nil, nil, nil)
	ms := state.(*MatchState)
	ola := mockPresence{userID: "user-1", username: "Ola"}
	kari := mockPresence{userID: "user-2", username: "Kari"}
	ms = handler.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 1, ms, []runtime.Presence{ola, kari}).(*MatchState)

	// Kari is not the owner and cannot start the game.
	handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 2, ms, []runtime.MatchData{mockMatchData{mockPresence: kari, opCode: OpStartGame}})
	if ms.Session != nil {
		t.Fatalf("non-owner started the game")
	}

	handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 3, ms, []runtime.MatchData{mockMatchData{mockPresence: ola, opCode: OpStartGame}})
	if ms.Session == nil {
		t.Fatalf("owner could not start the game")
	}
	defer ms.Session.Stop()

	var pending app.PendingDecision
	deadline := time.Now().Add(5 * time.Second)
	for {
		if d, ok := ms.Session.Pending(); ok {
			pending = d
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no decision opened")
		}
		time.Sleep(time.Millisecond)
	}

	intruder := kari
	if pending.PlayerID == kari.userID {
		intruder = ola
	}
	msg, _ := structpb.NewStruct(map[string]interface{}{"decision_id": pending.ID, "action": "play", "indices": []interface{}{0}})
	data, _ := proto.Marshal(msg)
	before := dispatcher.count(OpGameError)
	handler.MatchLoop(ctx, noopLogger{}, nil, nil, dispatcher, 4, ms, []runtime.MatchData{mockMatchData{mockPresence: intruder, opCode: OpResolveDecision, data: data}})

	if dispatcher.count(OpGameError) != before+1 {
		t.Fatalf("answer from the wrong player should be rejected with an error")
	}
	if still, ok := ms.Session.Pending(); !ok || still.ID != pending.ID {
		t.Fatalf("decision should still be open")
	}
}
