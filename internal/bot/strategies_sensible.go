package bot

import (
	"smor/internal/app"
	"smor/internal/config"
	"smor/internal/domain"
)

// SensibleBot scores its hand through a rule pipeline and keeps track of the
// last table it saw so off-turn questions can be answered in context.
type SensibleBot struct {
	Tuning   Tuning
	Pipeline []SelectionRule

	rules config.Rules
	town  int
}

// NewSensibleBot builds the default rule pipeline for t.
func NewSensibleBot(t Tuning) *SensibleBot {
	return &SensibleBot{
		Tuning: t,
		Pipeline: []SelectionRule{
			&FavorScoreRule{Weight: t.ScoreWeight},
			&SweetspotRule{Reward: t.SweetspotReward, RescuePenalty: t.RescuePenalty, SoberPenalty: t.SoberPenalty},
			&CallFriendRule{Weight: t.CallFriendWeight},
			&KnowBeerRule{Weight: t.KnowBeerWeight},
		},
		rules: config.DefaultRules(),
	}
}

func (b *SensibleBot) score(p *domain.Player, cards []domain.Card) *SelectionContext {
	ctx := &SelectionContext{Player: p, Cards: cards, Town: b.town, Rules: b.rules}
	RunPipeline(ctx, b.Pipeline)
	return ctx
}

func (b *SensibleBot) ChooseTurn(req app.TurnRequest) app.TurnAction {
	if req.Rules.HandSize > 0 {
		b.rules = req.Rules
	}
	b.town = len(req.Town)

	p := req.Player
	sel := b.score(p, p.Hand)

	if npc := worstNPC(p.NPCs); npc >= 0 {
		return app.TurnAction{Kind: app.ActionSendAway, Cards: []int{sel.Worst()}, NPC: npc}
	}
	if len(p.Hand) >= 2 && sel.Scores[sel.Best()] < b.Tuning.TradeThreshold {
		first := sel.Worst()
		sel.Scores[first] = sel.Scores[sel.Best()] + 1
		return app.TurnAction{Kind: app.ActionTrade, Cards: []int{first, sel.Worst()}}
	}
	return app.PlayCard(sel.Best())
}

// ChooseCard keeps the best card and gives up the worst. Agent overrides
// forced discards with a random pick.
func (b *SensibleBot) ChooseCard(req app.CardRequest) int {
	sel := b.score(req.Player, req.Cards)
	if req.Purpose == app.PurposeTradeKeep {
		return sel.Best()
	}
	return sel.Worst()
}

func (b *SensibleBot) ChooseNPC(req app.NPCRequest) int {
	best, bestValue := -1, 0.0
	for i, npc := range req.Candidates {
		if v := npcValue(npc); best == -1 || v > bestValue {
			best, bestValue = i, v
		}
	}
	if req.Optional && bestValue < b.Tuning.DeclineNPCBelow {
		return -1
	}
	return best
}

func (b *SensibleBot) ChooseOption(req app.OptionRequest) int {
	switch req.Topic {
	case app.TopicChug:
		if b.chugPays(req.Player) {
			return app.ChugAttempt
		}
		return app.ChugDecline
	case app.TopicBong:
		switch x := req.Player.Intoxication; {
		case x < 1:
			return app.BongShot
		case x > 3:
			return app.BongBeer
		default:
			return app.BongDrink
		}
	}
	return req.Default
}

// chugPays compares the expected gain of a beer chug with its penalty.
func (b *SensibleBot) chugPays(p *domain.Player) bool {
	spec := b.rules.BeerChug
	need := b.rules.ChugTarget - chugBonus(p)
	switch {
	case need > 6:
		return false
	case need <= 1:
		return true
	}
	gain := spec.Reward.Amount
	if spec.Reward.Kind == domain.RewardIntoxication {
		gain = 0
	}
	// (7-need) of six faces succeed.
	return float64(7-need)*gain > float64(need-1)*float64(spec.Penalty)
}

func chugBonus(p *domain.Player) int {
	bonus := p.DiceBonus
	if p.Intoxication >= 1 && p.Intoxication <= 3 {
		bonus++
	}
	for _, npc := range p.NPCs {
		bonus += npc.Effects.SkillBonus + npc.Effects.ChugBonus
	}
	return bonus
}

// npcValue is a rough worth of having npc at the table.
func npcValue(npc *domain.NPC) float64 {
	fx := npc.Effects
	v := float64(fx.ScoreBonus) + 2*float64(fx.TurnStartScore)
	v += float64(fx.SkillBonus + fx.RescueBonus + fx.ChugBonus)
	v += 0.5 * float64(fx.BouncerBonus)
	if fx.BringsFriend {
		v++
	}
	if fx.EnhanceKnowBeer {
		v++
	}
	if fx.Dring {
		v -= 3
	}
	return v
}

// worstNPC returns the index of the least valuable NPC worth sending away, or -1.
func worstNPC(npcs []*domain.NPC) int {
	worst, worstValue := -1, 0.0
	for i, npc := range npcs {
		if v := npcValue(npc); v < worstValue {
			worst, worstValue = i, v
		}
	}
	return worst
}
