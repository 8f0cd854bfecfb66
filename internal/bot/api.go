package bot

import (
	"smor/internal/app"
)

// BotLevel selects the decision policy a bot plays with.
type BotLevel string

const (
	// BotLevelRandom answers every question uniformly at random.
	BotLevelRandom BotLevel = "random"
	// BotLevelSensible scores its options against the table state.
	BotLevelSensible BotLevel = "sensible"
)

// Brain is the interface that all bot strategies must implement.
// Brains are pure policies: they never block and never mutate the request.
type Brain interface {
	ChooseTurn(req app.TurnRequest) app.TurnAction
	ChooseCard(req app.CardRequest) int
	ChooseNPC(req app.NPCRequest) int
	ChooseOption(req app.OptionRequest) int
}
