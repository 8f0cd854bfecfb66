package app

import (
	"context"
	"math/rand"
	"testing"

	"smor/internal/dice"
	"smor/internal/domain"
	"smor/internal/logging"
)

// scriptedDecider answers from queues and falls back to safe defaults.
type scriptedDecider struct {
	turns   []TurnAction
	cards   []int
	npcs    []int
	options []int

	rolls        []RollNotice
	cardRequests []CardRequest
	optionTopics []Topic
	npcRequests  int
}

func (d *scriptedDecider) TakeTurn(_ context.Context, _ TurnRequest) (TurnAction, error) {
	if len(d.turns) == 0 {
		return PlayCard(0), nil
	}
	a := d.turns[0]
	d.turns = d.turns[1:]
	return a, nil
}

func (d *scriptedDecider) PickCard(_ context.Context, req CardRequest) (int, error) {
	d.cardRequests = append(d.cardRequests, req)
	return pop(&d.cards, 0), nil
}

func (d *scriptedDecider) PickNPC(_ context.Context, req NPCRequest) (int, error) {
	d.npcRequests++
	def := 0
	if req.Optional {
		def = -1
	}
	return pop(&d.npcs, def), nil
}

func (d *scriptedDecider) PickOption(_ context.Context, req OptionRequest) (int, error) {
	d.optionTopics = append(d.optionTopics, req.Topic)
	return pop(&d.options, req.Default), nil
}

func (d *scriptedDecider) AcknowledgeRoll(_ context.Context, n RollNotice) error {
	d.rolls = append(d.rolls, n)
	return nil
}

func pop(q *[]int, def int) int {
	if len(*q) == 0 {
		return def
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Cards: []domain.Card{
			{ID: domain.CardBeer, Name: "Drikk en øl", Intoxication: 0.5, Special: domain.SpecialChugBeer},
			{ID: domain.CardDrink, Name: "Drikk en drink", Intoxication: 0.5, Score: 1},
			{ID: domain.CardShot, Name: "Ta en shot", Intoxication: 1, Score: 1},
			{ID: domain.CardIce, Name: "Drikk en ice", Intoxication: 0.5, Special: domain.SpecialChugIce},
			{ID: "water", Name: "Drikk et glass vann", Intoxication: -0.5},
		},
		Places: []*domain.Place{{Name: "Stua"}},
		NPCs: []*domain.NPC{
			{Name: "Sjefen", Effects: domain.NPCEffects{EnhanceKnowBeer: true}},
			{Name: "Sård", Effects: domain.NPCEffects{ChugBonus: 1}},
			{Name: "Eddie", Effects: domain.NPCEffects{BringsFriend: true}},
			{Name: "William", Effects: domain.NPCEffects{SkillBonus: 1}},
			{Name: "Fotografen", Effects: domain.NPCEffects{ScoreBonus: 2}},
		},
	}
}

// plainCatalog has only cards that never ask a question.
func plainCatalog() *domain.Catalog {
	return &domain.Catalog{
		Cards: []domain.Card{
			{ID: domain.CardDrink, Name: "Drikk en drink", Intoxication: 0.5, Score: 1},
			{ID: domain.CardShot, Name: "Ta en shot", Intoxication: 1, Score: 1},
			{ID: "water", Name: "Drikk et glass vann", Intoxication: -0.5},
			{ID: "photo", Name: "Ta et gruppebilde", Score: 1},
		},
		Places: []*domain.Place{{Name: "Stua"}, {Name: "Kjelleren"}},
	}
}

type testTable struct {
	engine   *Engine
	players  []*domain.Player
	deciders []*scriptedDecider
}

// newTable builds an engine over catalog with scripted dice. The engine is
// parked in Fest at the catalog's first place.
func newTable(t *testing.T, catalog *domain.Catalog, faces []int, names ...string) *testTable {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Ola", "Kari"}
	}
	tt := &testTable{}
	var parts []Participant
	for i, name := range names {
		p := domain.NewPlayer("p"+string(rune('1'+i)), name, false)
		d := &scriptedDecider{}
		tt.players = append(tt.players, p)
		tt.deciders = append(tt.deciders, d)
		parts = append(parts, Participant{Player: p, Decider: d})
	}
	e, err := NewEngine(Options{
		GameID:       "game-1",
		Catalog:      catalog,
		Participants: parts,
		Rand:         rand.New(rand.NewSource(7)),
		Dice:         dice.NewRoller(dice.NewScripted(faces...)),
		Logger:       logging.Nop(),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.phase = domain.PhaseFest
	e.place = catalog.Places[0]
	tt.engine = e
	return tt
}

func card(c *domain.Catalog, id string) domain.Card {
	found, ok := c.CardByID(id)
	if !ok {
		panic("missing card " + id)
	}
	return found
}
