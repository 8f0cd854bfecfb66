package app

import (
	"context"

	"smor/internal/domain"
)

// refillTown tops the town up to capacity with NPCs nobody has met yet.
func (e *Engine) refillTown() {
	for len(e.town) < e.rules.TownCapacity {
		npc := e.drawUnusedNPC()
		if npc == nil {
			return
		}
		e.town = append(e.town, npc)
	}
}

// drawUnusedNPC picks a random catalog NPC that has not been offered and
// marks it used. It returns nil when the catalog is exhausted.
func (e *Engine) drawUnusedNPC() *domain.NPC {
	var free []*domain.NPC
	for _, n := range e.catalog.NPCs {
		if !e.usedNPCs[n.Name] {
			free = append(free, n)
		}
	}
	if len(free) == 0 {
		return nil
	}
	npc := free[e.rng.Intn(len(free))]
	e.usedNPCs[npc.Name] = true
	return npc.Clone()
}

// callFriend offers the town to p and rolls for the chosen NPC. A failed roll
// is softened with a random unused NPC.
func (e *Engine) callFriend(ctx context.Context, p *domain.Player) error {
	if len(e.town) == 0 {
		e.logf(domain.LogInfo, "😔 Ingen NPC-er ute på byen akkurat nå...")
		return nil
	}

	release := e.awaiting(p, SuspendNPCChoice)
	idx, err := e.decider(p).PickNPC(ctx, NPCRequest{Player: p, Candidates: e.town, Optional: true})
	release()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(e.town) {
		e.logf(domain.LogInfo, "%s velger å ikke ringe noen.", p.Name)
		return nil
	}

	chosen := e.town[idx]
	e.logf(domain.LogInfo, "📞 %s ringer %s...", p.Name, chosen.Name)
	res, err := e.rollSkill(ctx, p, RollCallFriend, e.rules.RecruitTarget)
	if err != nil {
		return err
	}
	if !res.Success {
		e.grantRandomNPC(p, p.Name+" får uventet besøk")
		return nil
	}

	e.town = domain.RemoveAt(e.town, idx)
	e.recruit(p, chosen)
	e.logf(domain.LogSuccess, "✅ %s henter %s!", p.Name, chosen.Name)
	p.AddScore(e.rules.RecruitScore)
	e.logf(domain.LogSuccess, "🎉 %s får %d minnepoeng for å ringe en venn!", p.Name, e.rules.RecruitScore)

	if chosen.Effects.BringsFriend {
		e.grantRandomNPC(p, chosen.Name+" tar med en venn")
	}
	return nil
}

// grantRandomNPC gives p a random NPC that has never been offered.
func (e *Engine) grantRandomNPC(p *domain.Player, reason string) {
	npc := e.drawUnusedNPC()
	if npc == nil {
		e.logf(domain.LogInfo, "😔 Ingen flere NPC-er tilgjengelige for %s...", p.Name)
		return
	}
	e.logf(domain.LogInfo, "%s...", reason)
	e.recruit(p, npc)
	e.logf(domain.LogSuccess, "🎁 %s får besøk av %s!", p.Name, npc.Name)
}

// recruit adds npc to p and applies its one-off effects.
func (e *Engine) recruit(p *domain.Player, npc *domain.NPC) bool {
	if !p.Recruit(npc) {
		e.logger.Warn("recruit: %s already has %s", p.Name, npc.Name)
		return false
	}
	fx := npc.Effects
	if fx.IntoxicationBonus != 0 {
		p.AddIntoxication(fx.IntoxicationBonus)
		e.logf(domain.LogInfo, "%s får %+.1f promille fra %s!", p.Name, fx.IntoxicationBonus, npc.Name)
	}
	if fx.ScoreBonus != 0 {
		p.AddScore(fx.ScoreBonus)
		e.logf(domain.LogInfo, "%s får %d minnepoeng fra %s!", p.Name, fx.ScoreBonus, npc.Name)
	}
	return true
}

// sendAway discards a card and tries to pass one of p's NPCs to the other
// player who rolls lowest.
func (e *Engine) sendAway(ctx context.Context, p *domain.Player, cardIdx, npcIdx int) error {
	release := e.suspend(SuspendSendAwayStep)
	defer release()

	npc := p.NPCs[npcIdx]
	if card, ok := p.TakeCard(cardIdx); ok {
		e.logf(domain.LogInfo, "🗑️ %s kaster %s", p.Name, card.Name)
	}
	e.logf(domain.LogInfo, "👋 %s prøver å sende vekk %s!", p.Name, npc.Name)

	res, err := e.rollSkill(ctx, p, RollSendAway, e.rules.SendAwayTarget)
	if err != nil {
		return err
	}
	if !res.Success {
		e.logf(domain.LogError, "😤 %s vil ikke dra!", npc.Name)
		return nil
	}

	p.Dismiss(npcIdx)
	others := e.others(p)
	if len(others) == 0 {
		e.logf(domain.LogInfo, "🏠 %s drar hjem! (ingen andre spillere)", npc.Name)
		return nil
	}

	var (
		target *domain.Player
		lowest int
	)
	for _, q := range others {
		face, err := e.rollRaw(ctx, q, RollTransfer)
		if err != nil {
			return err
		}
		total := face + baseBonus(q)
		e.logf(domain.LogInfo, "🎲 %s kaster ferdighetskast: %d", q.Name, total)
		if target == nil || total < lowest {
			target, lowest = q, total
		}
	}
	if !e.recruit(target, npc) {
		e.logf(domain.LogInfo, "🏠 %s drar hjem!", npc.Name)
		return nil
	}
	e.logf(domain.LogSuccess, "🎉 %s får %s! (lavest ferdighetskast: %d)", target.Name, npc.Name, lowest)
	return nil
}
