package app

import (
	"context"
	"math"
	"strings"

	"smor/internal/domain"
)

// venueEntryGate makes every player roll to get past the bouncer on the first
// visit to a guarded venue after Vors. Failures sit out the phase.
func (e *Engine) venueEntryGate(ctx context.Context) error {
	first := !e.visited[e.place.Name]
	e.visited[e.place.Name] = true
	if !e.place.HasBouncer || !first || e.phase == domain.PhaseVors {
		return nil
	}

	e.logf(domain.LogWarning, "🚪 DØRVAKT PÅ %s", strings.ToUpper(e.place.Name))
	e.logf(domain.LogInfo, "Alle spillere må kaste terning for å komme inn!")

	for _, p := range e.players {
		target := entryTarget(p.Intoxication)
		e.logf(domain.LogInfo, "🎲 %s prøver å komme inn...", p.Name)
		e.logf(domain.LogInfo, "Du må kaste %d eller høyere (promille: %.1f)", target, p.Intoxication)

		res, err := e.rollSkill(ctx, p, RollEntry, target)
		if err != nil {
			return err
		}
		if res.Success {
			e.logf(domain.LogSuccess, "✅ %s kommer inn på %s!", p.Name, e.place.Name)
			continue
		}
		p.Status = domain.StatusBlocked
		e.logf(domain.LogError, "❌ %s blir nektet inngang til %s!", p.Name, e.place.Name)
		e.logf(domain.LogWarning, "😢 %s må vente utenfor denne runden...", p.Name)
	}
	e.publish()
	return nil
}

// entryTarget is 1 for a sober player, otherwise intoxication rounded up.
func entryTarget(intoxication float64) int {
	if intoxication == 0 {
		return 1
	}
	return int(math.Ceil(intoxication))
}
