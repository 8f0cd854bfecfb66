package bot

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"smor/internal/app"
	"smor/internal/catalog"
	"smor/internal/domain"
	"smor/internal/logging"
)

func TestAgentClampsBrainAnswers(t *testing.T) {
	a := &Agent{Strategy: stubBrain{card: 9, npc: 7, option: -3}}
	ctx := context.Background()
	p := &domain.Player{Name: "Ola"}

	if got, _ := a.PickCard(ctx, app.CardRequest{Player: p, Cards: []domain.Card{beer, water}}); got != 0 {
		t.Fatalf("card = %d, want 0", got)
	}
	if got, _ := a.PickCard(ctx, app.CardRequest{Player: p}); got != -1 {
		t.Fatalf("card from empty list = %d, want -1", got)
	}
	if got, _ := a.PickNPC(ctx, app.NPCRequest{Player: p, Candidates: []*domain.NPC{{Name: "A"}}, Optional: true}); got != -1 {
		t.Fatalf("optional npc = %d, want -1", got)
	}
	if got, _ := a.PickOption(ctx, app.OptionRequest{Player: p, Options: []string{"ja", "nei"}, Default: 1}); got != 1 {
		t.Fatalf("option = %d, want default", got)
	}
}

func TestAgentHonoursCancel(t *testing.T) {
	a, err := NewAgent(BotLevelRandom, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &domain.Player{Hand: []domain.Card{beer}}
	if _, err := a.TakeTurn(ctx, app.TurnRequest{Player: p}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if err := a.AcknowledgeRoll(ctx, app.RollNotice{Player: p}); !errors.Is(err, context.Canceled) {
		t.Fatalf("ack err = %v, want context.Canceled", err)
	}
}

func TestSensibleAgentDiscardsAtRandom(t *testing.T) {
	a, err := NewAgent(BotLevelSensible, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	p := &domain.Player{Name: "Eddie"}
	hand := []domain.Card{beer, water, shot}

	for _, purpose := range []app.CardPurpose{app.PurposeVomit, app.PurposeDring} {
		seen := map[int]int{}
		for i := 0; i < 300; i++ {
			got, err := a.PickCard(context.Background(), app.CardRequest{Player: p, Purpose: purpose, Cards: hand})
			if err != nil || got < 0 || got >= len(hand) {
				t.Fatalf("%s: pick %d err %v", purpose, got, err)
			}
			seen[got]++
		}
		if len(seen) != len(hand) {
			t.Fatalf("%s: picks %v should cover every card", purpose, seen)
		}
	}

	keep, _ := a.PickCard(context.Background(), app.CardRequest{Player: p, Purpose: app.PurposeTradeKeep, Cards: hand})
	if want := a.Strategy.ChooseCard(app.CardRequest{Player: p, Purpose: app.PurposeTradeKeep, Cards: hand}); keep != want {
		t.Fatalf("trade keep = %d, want the strategy's pick %d", keep, want)
	}
}

// Plays complete games with the built-in catalog and only bots at the table.
func TestBotsPlayFullGames(t *testing.T) {
	cat, _, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	for seed := int64(1); seed <= 8; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var parts []app.Participant
		for i, name := range []string{"Sjefen", "Sård", "Eddie", "William"} {
			level := BotLevelRandom
			if i%2 == 1 {
				level = BotLevelSensible
			}
			agent, err := NewAgent(level, rand.New(rand.NewSource(seed*10+int64(i))))
			if err != nil {
				t.Fatalf("agent: %v", err)
			}
			parts = append(parts, app.Participant{Player: domain.NewPlayer("", name, false), Decider: agent})
		}

		e, err := app.NewEngine(app.Options{Catalog: cat, Participants: parts, Rand: rng, Logger: logging.Nop()})
		if err != nil {
			t.Fatalf("engine: %v", err)
		}
		res, err := e.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: run: %v", seed, err)
		}
		if len(res.Leaderboard) != 4 || res.Winner.PlayerID == "" {
			t.Fatalf("seed %d: result = %+v", seed, res)
		}
		holders := 0
		for _, p := range e.Players() {
			if p.Intoxication < domain.MinIntoxication || p.Intoxication > domain.MaxIntoxication {
				t.Fatalf("seed %d: %s intoxication %v", seed, p.Name, p.Intoxication)
			}
			if p.HasPenaltyToken {
				holders++
			}
		}
		if holders > 1 {
			t.Fatalf("seed %d: %d penalty token holders", seed, holders)
		}
	}
}

type stubBrain struct {
	card, npc, option int
}

func (s stubBrain) ChooseTurn(app.TurnRequest) app.TurnAction { return app.PlayCard(0) }
func (s stubBrain) ChooseCard(app.CardRequest) int            { return s.card }
func (s stubBrain) ChooseNPC(app.NPCRequest) int              { return s.npc }
func (s stubBrain) ChooseOption(app.OptionRequest) int        { return s.option }
