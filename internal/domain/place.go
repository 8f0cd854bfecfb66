package domain

// RescueOverride replaces the rescue threshold and target while a venue is
// visited in a specific phase.
type RescueOverride struct {
	Phase     Phase
	Threshold float64
	Target    int
}

// PhaseBonus adds intoxication to every positive card played in one phase.
type PhaseBonus struct {
	Phase Phase
	Delta float64
}

// PlaceEffects are the typed modifiers a venue applies while it is visited.
type PlaceEffects struct {
	// BeerDouble re-applies the beer card's intoxication delta.
	BeerDouble bool
	// BeerAsDrink makes beer cards count as drinks (+1 score).
	BeerAsDrink bool
	// RingFriendBonus adds a bonus to call-friend recruitment rolls.
	RingFriendBonus bool
	// RoundScoreBonus is granted to every active player when a round is dealt.
	RoundScoreBonus int
	// RoundIntoxicationReduction is removed from every active player when a round is dealt.
	RoundIntoxicationReduction float64

	PhaseBonus *PhaseBonus
	Rescue     *RescueOverride
}

// Place is a venue. Places are shared read-only catalog entries.
type Place struct {
	Name               string
	Text               string
	Effects            PlaceEffects
	EffectDescriptions map[string]string
	HasBouncer         bool
}

// RescueRule returns the threshold and target for the rescue roll in phase.
func (p *Place) RescueRule(phase Phase, threshold float64, target int) (float64, int) {
	if p == nil || p.Effects.Rescue == nil || p.Effects.Rescue.Phase != phase {
		return threshold, target
	}
	return p.Effects.Rescue.Threshold, p.Effects.Rescue.Target
}
