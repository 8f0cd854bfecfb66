package bot

import (
	"math"

	"smor/internal/config"
	"smor/internal/domain"
)

// SelectionContext holds the state for the card scoring pipeline.
type SelectionContext struct {
	Player *domain.Player
	Cards  []domain.Card
	Town   int
	Rules  config.Rules
	Scores []float64
}

// SelectionRule represents a logic unit that adjusts the score of each candidate card.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// FavorScoreRule prefers cards with a high printed score.
type FavorScoreRule struct{ Weight float64 }

func (r *FavorScoreRule) Name() string { return "FavorScore" }

func (r *FavorScoreRule) Apply(ctx *SelectionContext) {
	for i, c := range ctx.Cards {
		ctx.Scores[i] += r.Weight * float64(c.Score)
	}
}

// SweetspotRule prefers cards that keep intoxication between one and three
// and punishes cards that reach the rescue threshold.
type SweetspotRule struct {
	Reward        float64
	RescuePenalty float64
	SoberPenalty  float64
}

func (r *SweetspotRule) Name() string { return "Sweetspot" }

func (r *SweetspotRule) Apply(ctx *SelectionContext) {
	for i, c := range ctx.Cards {
		after := projectIntoxication(ctx.Player.Intoxication, c.Intoxication)
		switch {
		case after >= ctx.Rules.RescueThreshold:
			ctx.Scores[i] -= r.RescuePenalty
		case after >= 1 && after <= 3:
			ctx.Scores[i] += r.Reward
		case after == domain.MinIntoxication:
			ctx.Scores[i] -= r.SoberPenalty
		}
	}
}

// CallFriendRule prefers calling a friend when the town has someone to call.
type CallFriendRule struct{ Weight float64 }

func (r *CallFriendRule) Name() string { return "CallFriend" }

func (r *CallFriendRule) Apply(ctx *SelectionContext) {
	for i, c := range ctx.Cards {
		if c.Special != domain.SpecialCallFriend {
			continue
		}
		if ctx.Town > 0 {
			ctx.Scores[i] += r.Weight
		} else {
			ctx.Scores[i] -= r.Weight
		}
	}
}

// KnowBeerRule plays know-beer only when the player is drunk enough to profit.
type KnowBeerRule struct{ Weight float64 }

func (r *KnowBeerRule) Name() string { return "KnowBeer" }

func (r *KnowBeerRule) Apply(ctx *SelectionContext) {
	for i, c := range ctx.Cards {
		if c.Special != domain.SpecialKnowBeer {
			continue
		}
		if ctx.Player.Intoxication >= ctx.Rules.KnowBeerThreshold {
			ctx.Scores[i] += r.Weight
		} else {
			ctx.Scores[i] -= r.Weight
		}
	}
}

// RunPipeline scores every card in ctx through rules in order.
func RunPipeline(ctx *SelectionContext, rules []SelectionRule) {
	ctx.Scores = make([]float64, len(ctx.Cards))
	for _, r := range rules {
		r.Apply(ctx)
	}
}

// Best returns the index of the highest score, first on ties.
func (ctx *SelectionContext) Best() int {
	best := 0
	for i, s := range ctx.Scores {
		if s > ctx.Scores[best] {
			best = i
		}
	}
	return best
}

// Worst returns the index of the lowest score, first on ties.
func (ctx *SelectionContext) Worst() int {
	worst := 0
	for i, s := range ctx.Scores {
		if s < ctx.Scores[worst] {
			worst = i
		}
	}
	return worst
}

func projectIntoxication(current, delta float64) float64 {
	return math.Max(domain.MinIntoxication, math.Min(domain.MaxIntoxication, current+delta))
}
