package app

import (
	"context"
	"strings"

	"smor/internal/config"
	"smor/internal/dice"
	"smor/internal/domain"
)

// ActionKind is what a player does with a turn.
type ActionKind string

const (
	// ActionPlay plays Cards[0].
	ActionPlay ActionKind = "play"
	// ActionTrade discards Cards[0] and Cards[1], draws three and keeps one.
	ActionTrade ActionKind = "trade"
	// ActionSendAway discards Cards[0] and tries to send NPC away.
	ActionSendAway ActionKind = "send_away"
)

// TurnAction is a player's answer to TakeTurn.
type TurnAction struct {
	Kind  ActionKind
	Cards []int
	NPC   int
}

// PlayCard is shorthand for playing the card at index i.
func PlayCard(i int) TurnAction {
	return TurnAction{Kind: ActionPlay, Cards: []int{i}}
}

// CardPurpose tells a decider why it is asked to pick a card.
type CardPurpose string

const (
	PurposeVomit     CardPurpose = "vomit"
	PurposeDring     CardPurpose = "dring"
	PurposeTradeKeep CardPurpose = "trade_keep"
)

// Topic tells a decider what a multiple-choice question is about.
type Topic string

const (
	TopicChug Topic = "chug"
	TopicBong Topic = "bong"
)

// Answers to a TopicChug question.
const (
	ChugAttempt = 0
	ChugDecline = 1
)

// Answers to a TopicBong question, in option order.
const (
	BongBeer = iota
	BongDrink
	BongShot
)

// TurnRequest asks the current player for a turn action.
type TurnRequest struct {
	Player  *domain.Player
	Players []*domain.Player
	Place   *domain.Place
	Phase   domain.Phase
	Town    []*domain.NPC
	Rules   config.Rules
}

// CardRequest asks a player to pick one of Cards.
type CardRequest struct {
	Player  *domain.Player
	Purpose CardPurpose
	Cards   []domain.Card
}

// NPCRequest asks a player to pick one of Candidates. When Optional, -1 declines.
type NPCRequest struct {
	Player     *domain.Player
	Candidates []*domain.NPC
	Optional   bool
}

// OptionRequest is a multiple-choice question. Default is used when no answer arrives.
type OptionRequest struct {
	Player  *domain.Player
	Topic   Topic
	Prompt  string
	Options []string
	Default int
}

// RollNotice presents a finished roll to the player who rolled it.
type RollNotice struct {
	Player *domain.Player
	Action RollAction
	Result dice.Result
	Raw    bool
}

// Decider answers every question the engine asks a player. Calls block until
// the player has answered; they run on the engine goroutine.
type Decider interface {
	TakeTurn(ctx context.Context, req TurnRequest) (TurnAction, error)
	PickCard(ctx context.Context, req CardRequest) (int, error)
	PickNPC(ctx context.Context, req NPCRequest) (int, error)
	PickOption(ctx context.Context, req OptionRequest) (int, error)
	AcknowledgeRoll(ctx context.Context, notice RollNotice) error
}

// Suspension is the set of decisions the engine is currently waiting on.
type Suspension uint16

const (
	SuspendHumanInput Suspension = 1 << iota
	SuspendNPCChoice
	SuspendIcing
	SuspendChugChoice
	SuspendDringDiscard
	SuspendBongChoice
	SuspendTradeStep
	SuspendSendAwayStep
	SuspendRoll
)

var suspensionNames = []struct {
	flag Suspension
	name string
}{
	{SuspendHumanInput, "human_input"},
	{SuspendNPCChoice, "npc_choice"},
	{SuspendIcing, "icing"},
	{SuspendChugChoice, "chug_choice"},
	{SuspendDringDiscard, "dring_discard"},
	{SuspendBongChoice, "bong_choice"},
	{SuspendTradeStep, "trade_step"},
	{SuspendSendAwayStep, "send_away_step"},
	{SuspendRoll, "dice"},
}

// Has reports whether flag is set.
func (s Suspension) Has(flag Suspension) bool {
	return s&flag != 0
}

// Names lists the set flags.
func (s Suspension) Names() []string {
	var out []string
	for _, n := range suspensionNames {
		if s.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

func (s Suspension) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}
