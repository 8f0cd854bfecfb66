package app

import (
	"context"

	"smor/internal/domain"
)

const tradeDraw = 3

// tradeCards discards two cards from p's hand, draws three and lets p keep
// one. The two rejected cards go to the bottom of the deck.
func (e *Engine) tradeCards(ctx context.Context, p *domain.Player, i, j int) error {
	release := e.suspend(SuspendTradeStep)
	defer release()

	if i < j {
		i, j = j, i
	}
	first, _ := p.TakeCard(i)
	second, _ := p.TakeCard(j)
	e.logf(domain.LogInfo, "🗑️ %s kaster %s og %s", p.Name, first.Name, second.Name)

	drawn := e.deck.Draw(tradeDraw)
	if len(drawn) == 0 {
		return nil
	}
	idx, err := e.askCard(ctx, p, PurposeTradeKeep, drawn, SuspendHumanInput)
	if err != nil {
		return err
	}
	kept := drawn[idx]
	p.Hand = append(p.Hand, kept)
	e.deck.Return(domain.RemoveAt(drawn, idx)...)
	e.logf(domain.LogInfo, "🃏 %s får %s", p.Name, kept.Name)
	return nil
}
