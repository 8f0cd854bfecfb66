package app

import (
	"smor/internal/domain"
)

// applyPhaseHook applies the current venue's reaction to the card p last played.
func (e *Engine) applyPhaseHook(p *domain.Player) {
	if e.place == nil {
		return
	}
	fx := e.place.Effects
	beer := p.LastPlayedCardID == domain.CardBeer

	if fx.BeerDouble && beer {
		e.logf(domain.LogInfo, "%s får dobbel promille på øl-kortet på grunn av %s!", p.Name, e.place.Name)
		p.AddIntoxication(p.LastPlayedIntoxication)
	}
	if fx.BeerAsDrink && beer {
		e.logf(domain.LogInfo, "%s får drink-effekt på øl-kortet på grunn av %s!", p.Name, e.place.Name)
		p.AddScore(1)
	}
	if b := fx.PhaseBonus; b != nil && b.Phase == e.phase && p.LastPlayedIntoxication > 0 {
		e.logf(domain.LogInfo, "%s får %.1f ekstra promille på grunn av %s (%s)!", p.Name, b.Delta, e.place.Name, e.phase)
		p.AddIntoxication(b.Delta)
	}
}

// applyRoundStart applies the venue's once-per-round effects to p.
func (e *Engine) applyRoundStart(p *domain.Player) {
	if e.place == nil {
		return
	}
	fx := e.place.Effects
	if fx.RoundScoreBonus != 0 {
		p.AddScore(fx.RoundScoreBonus)
		e.logf(domain.LogInfo, "%s får %d minnepoeng fra %s.", p.Name, fx.RoundScoreBonus, e.place.Name)
	}
	if fx.RoundIntoxicationReduction != 0 {
		p.AddIntoxication(-fx.RoundIntoxicationReduction)
		e.logf(domain.LogInfo, "%s får %.1f mindre promille på grunn av %s.", p.Name, fx.RoundIntoxicationReduction, e.place.Name)
	}
}
