package app

import (
	"context"

	"smor/internal/domain"
)

type iceState int

const (
	icePivot iceState = iota
	iceOthers
	iceResolve
	iceDone
)

// iceRound is the state of one icing sub-game.
type iceRound struct {
	state     iceState
	initiator *domain.Player
	others    []*domain.Player
	next      int
	pivot     int
	matches   int
}

// icing runs the icing sub-game: the initiator rolls a pivot, every other
// player rolls, and those within range must chug an ice.
func (e *Engine) icing(ctx context.Context, p *domain.Player) error {
	release := e.suspend(SuspendIcing)
	defer release()

	e.logf(domain.LogInfo, "🧊 %s spiller Ice'ing!", p.Name)
	e.logf(domain.LogInfo, "Alle spillere kaster terning. De som matcher må chugge ice!")

	r := &iceRound{state: icePivot, initiator: p, others: e.others(p)}
	for r.state != iceDone {
		if err := e.stepIce(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) stepIce(ctx context.Context, r *iceRound) error {
	switch r.state {
	case icePivot:
		face, err := e.rollRaw(ctx, r.initiator, RollIcePivot)
		if err != nil {
			return err
		}
		r.pivot = face
		r.state = iceOthers

	case iceOthers:
		if r.next >= len(r.others) {
			r.state = iceResolve
			return nil
		}
		q := r.others[r.next]
		r.next++
		face, err := e.rollRaw(ctx, q, RollIceMatch)
		if err != nil {
			return err
		}
		if abs(face-r.pivot) > e.rules.IceMatchRange {
			e.logf(domain.LogInfo, "😔 %s har ikke auga med seg.", q.Name)
			return nil
		}
		e.logf(domain.LogSuccess, "🧊 %s fant icen! Må chugge!", q.Name)
		if err := e.iceMatched(ctx, q); err != nil {
			return err
		}
		r.matches++

	case iceResolve:
		if r.matches > 0 {
			r.initiator.AddScore(r.matches)
			e.logf(domain.LogSuccess, "🎉 %s får %d minnepoeng fordi %d spillere matchet!", r.initiator.Name, r.matches, r.matches)
		} else {
			e.logf(domain.LogInfo, "😔 Ingen fant ice'n til %s.", r.initiator.Name)
		}
		r.state = iceDone
	}
	return nil
}

// iceMatched makes q chug an ice, then applies the ice card's effect whatever
// the outcome.
func (e *Engine) iceMatched(ctx context.Context, q *domain.Player) error {
	if _, err := e.chug(ctx, q, e.rules.IceChug, RollChugIce); err != nil {
		return err
	}
	ice, ok := e.catalog.CardByID(domain.CardIce)
	if !ok {
		ice = domain.Card{ID: domain.CardIce, Intoxication: 0.5}
	}
	q.AddIntoxication(ice.Intoxication)
	q.RecordPlayed(ice)
	e.applyPhaseHook(q)
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
