package app

import (
	"context"
	"math"

	"smor/internal/domain"
)

// vomit costs p half their score (rounded up), sobers them up and makes them
// discard a card. Everyone else gets a bystander bonus.
func (e *Engine) vomit(ctx context.Context, p *domain.Player) error {
	e.logf(domain.LogError, "💀 %s mister 50%% av minnepoengene sine!", p.Name)
	e.logf(domain.LogError, "🤮 %s mister %.1f promille på grunn av å kaste opp!", p.Name, e.rules.VomitSoberUp)

	loss := int(math.Ceil(float64(p.Score) * 0.5))
	p.AddScore(-loss)
	p.AddIntoxication(-e.rules.VomitSoberUp)
	e.logf(domain.LogError, "😢 %s mistet %d minnepoeng og har nå %d minnepoeng.", p.Name, loss, p.Score)

	if p.HasCards() {
		e.logf(domain.LogInfo, "🗑️ %s må kaste et kort på grunn av å kaste opp!", p.Name)
		idx, err := e.askCard(ctx, p, PurposeVomit, p.Hand, SuspendHumanInput)
		if err != nil {
			return err
		}
		if card, ok := p.TakeCard(idx); ok {
			e.logf(domain.LogInfo, "🗑️ %s kaster %s på grunn av å kaste opp!", p.Name, card.Name)
		}
	}

	for _, q := range e.others(p) {
		q.AddScore(e.rules.VomitBystander)
		e.logf(domain.LogSuccess, "🎉 %s får %d minnepoeng fordi %s kastet opp!", q.Name, e.rules.VomitBystander, p.Name)
	}
	return e.pause(ctx)
}
