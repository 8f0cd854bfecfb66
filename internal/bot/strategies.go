package bot

import (
	"math/rand"

	"smor/internal/app"
)

// RandomBot plays a random card and answers every question at random.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) ChooseTurn(req app.TurnRequest) app.TurnAction {
	return app.PlayCard(b.rng.Intn(len(req.Player.Hand)))
}

func (b *RandomBot) ChooseCard(req app.CardRequest) int {
	return b.rng.Intn(len(req.Cards))
}

func (b *RandomBot) ChooseNPC(req app.NPCRequest) int {
	return b.rng.Intn(len(req.Candidates))
}

func (b *RandomBot) ChooseOption(req app.OptionRequest) int {
	if len(req.Options) == 0 {
		return req.Default
	}
	return b.rng.Intn(len(req.Options))
}
