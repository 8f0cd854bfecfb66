package app

import (
	"smor/internal/domain"
)

// applyStandings grants the leader jersey to p and moves the penalty token.
func (e *Engine) applyStandings(p *domain.Player) {
	if leader := uniqueExtreme(e.players, func(a, b float64) bool { return a > b }); leader == p && p.Intoxication > 0 {
		p.AddScore(e.rules.LeaderBonus)
		e.logf(domain.LogSuccess, "🏆 %s har høyest promille (%.1f) og får ledertrøya! (+%d minnepoeng)",
			p.Name, p.Intoxication, e.rules.LeaderBonus)
	}
	e.settlePenaltyToken()
}

// settlePenaltyToken gives the token to the unique lowest-intoxication player
// and takes it from everyone else. With a tie at the bottom nobody holds it.
func (e *Engine) settlePenaltyToken() {
	target := uniqueExtreme(e.players, func(a, b float64) bool { return a < b })
	for _, q := range e.players {
		if q.HasPenaltyToken && q != target {
			q.HasPenaltyToken = false
			q.AddDiceBonus(1)
			e.logf(domain.LogInfo, "💊 %s mister pilla-effekten!", q.Name)
		}
	}
	if target != nil && !target.HasPenaltyToken {
		target.HasPenaltyToken = true
		target.AddDiceBonus(-1)
		e.logf(domain.LogError, "💊 %s har lavest promille (%.1f). Er du på pilla eller? (-1 ferdighetskast)",
			target.Name, target.Intoxication)
	}
}

// uniqueExtreme returns the single player whose intoxication beats every
// other under better, or nil when the extreme is shared.
func uniqueExtreme(players []*domain.Player, better func(a, b float64) bool) *domain.Player {
	var best *domain.Player
	shared := false
	for _, q := range players {
		switch {
		case best == nil || better(q.Intoxication, best.Intoxication):
			best, shared = q, false
		case q.Intoxication == best.Intoxication:
			shared = true
		}
	}
	if shared {
		return nil
	}
	return best
}
