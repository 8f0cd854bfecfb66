package app

import (
	"context"
	"fmt"
	"strings"

	"smor/internal/domain"
)

// play resolves a card for p: chug prelude, base deltas, venue hook, then the
// card's special effect.
func (e *Engine) play(ctx context.Context, p *domain.Player, card domain.Card) error {
	switch card.Special {
	case domain.SpecialChugBeer:
		if _, err := e.chug(ctx, p, e.rules.BeerChug, RollChugBeer); err != nil {
			return err
		}
	case domain.SpecialChugIce:
		if _, err := e.chug(ctx, p, e.rules.IceChug, RollChugIce); err != nil {
			return err
		}
	}

	p.AddIntoxication(card.Intoxication)
	p.AddScore(card.Score)
	p.RecordPlayed(card)
	e.applyPhaseHook(p)
	e.logPlayed(p, card)

	switch card.Special {
	case domain.SpecialCallFriend:
		e.logf(domain.LogInfo, "📞 RING EN VENN")
		return e.callFriend(ctx, p)
	case domain.SpecialKnowBeer:
		e.knowBeer(p)
		return nil
	case domain.SpecialIcing:
		return e.icing(ctx, p)
	case domain.SpecialBongChoice:
		if err := e.bong(ctx, p); err != nil {
			return err
		}
	case domain.SpecialRoundDrinks:
		if err := e.roundDrinks(ctx, p); err != nil {
			return err
		}
	}
	e.applyNPCCardHooks(p, card)
	return nil
}

// logPlayed writes the summary line. A beer served as a drink is shown with
// the drink's name and score.
func (e *Engine) logPlayed(p *domain.Player, card domain.Card) {
	name, score := card.Name, card.Score
	if card.IsBeer() && e.place != nil && e.place.Effects.BeerAsDrink {
		name, score = "Drikk en drink", 1
		if drink, ok := e.catalog.CardByID(domain.CardDrink); ok {
			name, score = drink.Name, drink.Score
		}
	}
	var parts []string
	if card.Intoxication != 0 {
		parts = append(parts, fmt.Sprintf("Promille: %+.1f", card.Intoxication))
	}
	if score != 0 {
		parts = append(parts, fmt.Sprintf("M: %+d", score))
	}
	if len(parts) == 0 {
		return
	}
	e.logf(domain.LogInfo, "%s spiller %s -> %s", p.Name, name, strings.Join(parts, ", "))
}

// applyNPCCardHooks runs the generic per-card NPC effects.
func (e *Engine) applyNPCCardHooks(p *domain.Player, card domain.Card) {
	if !card.IsDrinkable() {
		return
	}
	for _, npc := range p.NPCs {
		if npc.Effects.DoubleBeer > 0 {
			p.AddIntoxication(npc.Effects.DoubleBeer)
			e.logf(domain.LogInfo, "%s dobler %s-effekten for %s!", npc.Name, strings.ToLower(card.Label()), p.Name)
		}
	}
}

// knowBeer rewards every player at or above the threshold. The card's player
// earns the enhanced bonus when one of their NPCs enhances it, and loses a
// point when below the threshold.
func (e *Engine) knowBeer(p *domain.Player) {
	enhanced := false
	for _, npc := range p.NPCs {
		if npc.Effects.EnhanceKnowBeer {
			enhanced = true
			e.logf(domain.LogInfo, "%s forsterker effekten av 'Kjenner dere ølet!'!", npc.Name)
		}
	}
	e.logf(domain.LogInfo, "🍺 %s roper: 'Kjenner dere ølet!'", p.Name)

	for _, q := range e.players {
		if q.Intoxication < e.rules.KnowBeerThreshold {
			continue
		}
		bonus := e.rules.KnowBeerBonus
		if q == p && enhanced {
			bonus = e.rules.KnowBeerEnhanced
		}
		q.AddScore(bonus)
		e.logf(domain.LogSuccess, "🍺 %s har %.1f promille og får %d minnepoeng!", q.Name, q.Intoxication, bonus)
	}

	if p.Intoxication >= e.rules.KnowBeerThreshold {
		return
	}
	if p.Score > 0 {
		p.AddScore(-e.rules.KnowBeerPenalty)
		e.logf(domain.LogError, "😔 %s har bare %.1f promille og mister %d minnepoeng...", p.Name, p.Intoxication, e.rules.KnowBeerPenalty)
		return
	}
	e.logf(domain.LogInfo, "😔 %s har bare %.1f promille, men har ingen M å miste...", p.Name, p.Intoxication)
}

var bongChoices = []struct {
	label  string
	cardID string
}{
	BongBeer:  {"Øl", domain.CardBeer},
	BongDrink: {"Drink", domain.CardDrink},
	BongShot:  {"Shot", domain.CardShot},
}

// bong lets p pick a beer, drink or shot and plays that card in full.
func (e *Engine) bong(ctx context.Context, p *domain.Player) error {
	e.logf(domain.LogInfo, "🎫 %s løser inn en 'Bong'!", p.Name)
	options := make([]string, len(bongChoices))
	for i, c := range bongChoices {
		options[i] = c.label
	}
	idx, err := e.askOption(ctx, p, TopicBong, fmt.Sprintf("%s, velg hva du vil drikke", p.Name), options, BongBeer, SuspendBongChoice)
	if err != nil {
		return err
	}
	choice := bongChoices[idx]
	card, ok := e.catalog.CardByID(choice.cardID)
	if !ok {
		e.logf(domain.LogInfo, "Fant ikke kortet %s.", choice.cardID)
		return nil
	}
	if err := e.play(ctx, p, card); err != nil {
		return err
	}
	e.logf(domain.LogInfo, "🎯 %s valgte %s", p.Name, choice.label)
	return nil
}

// roundDrinks plays a beer card for every player in seat order.
func (e *Engine) roundDrinks(ctx context.Context, p *domain.Player) error {
	e.logf(domain.LogInfo, "🍻 %s spiller 'Ta en runde'!", p.Name)
	beer, ok := e.catalog.CardByID(domain.CardBeer)
	if !ok {
		e.logf(domain.LogInfo, "❌ Kunne ikke finne øl-kortet!")
		return nil
	}
	e.logf(domain.LogInfo, "Alle spillere får øl og kan velge å chugge!")
	for _, q := range e.players {
		if err := e.play(ctx, q, beer); err != nil {
			return err
		}
		if err := e.pause(ctx); err != nil {
			return err
		}
	}
	e.logf(domain.LogInfo, "🍻 Runden er ferdig!")
	return nil
}
