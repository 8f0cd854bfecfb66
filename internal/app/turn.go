package app

import (
	"context"
	"strings"

	"smor/internal/dice"
	"smor/internal/domain"
)

// playerTurn runs one turn. It returns only after every decision the turn
// opened has been answered.
func (e *Engine) playerTurn(ctx context.Context, p *domain.Player) error {
	e.current = p
	e.refillTown()
	e.logf(domain.LogTurn, "🎮 %s SIN TUR", strings.ToUpper(p.Name))
	e.applyTurnStart(p)
	e.applyStandings(p)
	e.publish()

	defer func() {
		e.settlePenaltyToken()
		e.publish()
	}()

	ok, err := e.rescueCheck(ctx, p)
	if err != nil || !ok {
		return err
	}
	ok, err = e.dringGate(ctx, p)
	if err != nil || !ok {
		return err
	}
	return e.takeAction(ctx, p)
}

// applyTurnStart grants the per-turn NPC bonuses.
func (e *Engine) applyTurnStart(p *domain.Player) {
	for _, npc := range p.NPCs {
		fx := npc.Effects
		if fx.TurnStartIntoxication != 0 {
			p.AddIntoxication(fx.TurnStartIntoxication)
			e.logf(domain.LogInfo, "👼 %s gir %.1f promille ved starten av turen!", npc.Name, fx.TurnStartIntoxication)
		}
		if fx.TurnStartScore != 0 {
			p.AddScore(fx.TurnStartScore)
			e.logf(domain.LogInfo, "🧠 %s gir %d minnepoeng ved starten av turen!", npc.Name, fx.TurnStartScore)
		}
	}
}

// rescueCheck makes a player at or above the rescue threshold roll to avoid
// vomiting. It reports whether the turn may continue.
func (e *Engine) rescueCheck(ctx context.Context, p *domain.Player) (bool, error) {
	threshold, target := e.place.RescueRule(e.phase, e.rules.RescueThreshold, e.rules.RescueTarget)
	if p.Intoxication < threshold {
		return true, nil
	}
	e.logf(domain.LogWarning, "🤮 %s har %.1f promille og trenger redningskast!", p.Name, p.Intoxication)
	e.logf(domain.LogInfo, "Du må kaste %d eller høyere for å unngå å kaste opp!", target)

	res, err := e.rollSkill(ctx, p, RollRescue, target)
	if err != nil {
		return false, err
	}
	if res.Success {
		e.logf(domain.LogSuccess, "✅ %s klarer redningskastet og kan spille videre!", p.Name)
		return true, nil
	}
	e.logf(domain.LogError, "❌ %s kaster opp!", p.Name)
	return false, e.vomit(ctx, p)
}

// dringGate makes an owner of a dring NPC roll before acting. On failure the
// player discards one card without effect and the turn ends.
func (e *Engine) dringGate(ctx context.Context, p *domain.Player) (bool, error) {
	var dringer *domain.NPC
	for _, npc := range p.NPCs {
		if npc.Effects.Dring {
			dringer = npc
			break
		}
	}
	if dringer == nil {
		return true, nil
	}

	e.logf(domain.LogWarning, "🍺 %s er dringa av %s!", p.Name, dringer.Name)
	e.logf(domain.LogInfo, "Du må kaste %d eller høyere for å kunne spille denne runden!", e.rules.DringTarget)
	res, err := e.rollSkill(ctx, p, RollDring, e.rules.DringTarget)
	if err != nil {
		return false, err
	}
	if res.Success {
		e.logf(domain.LogSuccess, "✅ %s kan spille denne runden!", p.Name)
		return true, nil
	}

	e.logf(domain.LogError, "❌ %s må stå over runden og kaste et kort!", p.Name)
	idx, err := e.askCard(ctx, p, PurposeDring, p.Hand, SuspendDringDiscard)
	if err != nil {
		return false, err
	}
	if card, ok := p.TakeCard(idx); ok {
		e.logf(domain.LogInfo, "🗑️ %s kaster %s uten effekt.", p.Name, card.Name)
	}
	return false, nil
}

// takeAction asks the player what to do and carries it out.
func (e *Engine) takeAction(ctx context.Context, p *domain.Player) error {
	release := e.awaiting(p, SuspendHumanInput)
	action, err := e.decider(p).TakeTurn(ctx, TurnRequest{
		Player:  p,
		Players: e.players,
		Place:   e.place,
		Phase:   e.phase,
		Town:    e.town,
		Rules:   e.rules,
	})
	release()
	if err != nil {
		return err
	}
	if !validTurn(action, len(p.Hand), len(p.NPCs)) {
		e.logger.Warn("takeAction: invalid action %+v from %s, playing first card", action, p.Name)
		action = PlayCard(0)
	}

	switch action.Kind {
	case ActionTrade:
		return e.tradeCards(ctx, p, action.Cards[0], action.Cards[1])
	case ActionSendAway:
		return e.sendAway(ctx, p, action.Cards[0], action.NPC)
	default:
		card, _ := p.TakeCard(action.Cards[0])
		e.logf(domain.LogInfo, "🃏 %s spiller %s", p.Name, card.Name)
		return e.play(ctx, p, card)
	}
}

// awaiting suspends on flag while a human decides. AI decisions are immediate
// and leave the suspension set untouched. Either way the penalty token is
// settled first so every decider sees current standings.
func (e *Engine) awaiting(p *domain.Player, flag Suspension) func() {
	e.settlePenaltyToken()
	if !p.Human {
		return func() {}
	}
	return e.suspend(flag)
}

// rollSkill rolls for p with every applicable bonus and waits for the player
// to acknowledge the result.
func (e *Engine) rollSkill(ctx context.Context, p *domain.Player, action RollAction, target int) (dice.Result, error) {
	e.settlePenaltyToken()
	res := e.dice.RollSkill(target, e.skillBonuses(p, action))
	if err := e.acknowledge(ctx, p, RollNotice{Player: p, Action: action, Result: res}); err != nil {
		return dice.Result{}, err
	}
	kind := domain.LogError
	if res.Success {
		kind = domain.LogSuccess
	}
	e.logf(kind, "🎲 %s kaster for %s: %s", p.Name, action, res)
	return res, nil
}

// rollRaw rolls one unmodified die for p.
func (e *Engine) rollRaw(ctx context.Context, p *domain.Player, action RollAction) (int, error) {
	face := e.dice.RollRaw()
	res := dice.Result{Face: face, Total: face}
	if err := e.acknowledge(ctx, p, RollNotice{Player: p, Action: action, Result: res, Raw: true}); err != nil {
		return 0, err
	}
	e.logf(domain.LogInfo, "🎲 %s kaster %d (%s)", p.Name, face, action)
	return face, nil
}

func (e *Engine) acknowledge(ctx context.Context, p *domain.Player, notice RollNotice) error {
	release := e.awaiting(p, SuspendRoll)
	defer release()
	return e.decider(p).AcknowledgeRoll(ctx, notice)
}

// askCard asks p to pick one of cards; out-of-range answers fall back to the first card.
func (e *Engine) askCard(ctx context.Context, p *domain.Player, purpose CardPurpose, cards []domain.Card, flag Suspension) (int, error) {
	if len(cards) == 0 {
		return -1, nil
	}
	release := e.awaiting(p, flag)
	defer release()
	idx, err := e.decider(p).PickCard(ctx, CardRequest{Player: p, Purpose: purpose, Cards: cards})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(cards) {
		e.logger.Warn("askCard: %s picked %d of %d cards, using the first", p.Name, idx, len(cards))
		idx = 0
	}
	return idx, nil
}

// askOption asks a multiple-choice question; out-of-range answers use def.
func (e *Engine) askOption(ctx context.Context, p *domain.Player, topic Topic, prompt string, options []string, def int, flag Suspension) (int, error) {
	release := e.awaiting(p, flag)
	defer release()
	idx, err := e.decider(p).PickOption(ctx, OptionRequest{Player: p, Topic: topic, Prompt: prompt, Options: options, Default: def})
	if err != nil {
		return def, err
	}
	if idx < 0 || idx >= len(options) {
		e.logger.Warn("askOption: %s answered %d to %s, using %d", p.Name, idx, topic, def)
		idx = def
	}
	return idx, nil
}
