package app

import (
	"smor/internal/dice"
	"smor/internal/domain"
)

// RollAction names the reason for a roll; it selects situational bonuses.
type RollAction int

const (
	RollRescue RollAction = iota + 1
	RollEntry
	RollCallFriend
	RollChugBeer
	RollChugIce
	RollDring
	RollSendAway
	RollTransfer
	RollIcePivot
	RollIceMatch
)

var rollActionNames = map[RollAction]string{
	RollRescue:     "redningskast",
	RollEntry:      "inngang",
	RollCallFriend: "ring en venn",
	RollChugBeer:   "chugge øl",
	RollChugIce:    "chugge ice",
	RollDring:      "å kunne spille",
	RollSendAway:   "sende vekk",
	RollTransfer:   "overtagelse",
	RollIcePivot:   "icing",
	RollIceMatch:   "icing",
}

func (a RollAction) String() string {
	if s, ok := rollActionNames[a]; ok {
		return s
	}
	return "kast"
}

const (
	sweetspotLow  = 1.0
	sweetspotHigh = 3.0
)

// baseBonus is the player's permanent modifier: sweetspot plus the temporary accumulator.
func baseBonus(p *domain.Player) int {
	b := p.DiceBonus
	if inSweetspot(p) {
		b++
	}
	return b
}

func inSweetspot(p *domain.Player) bool {
	return p.Intoxication >= sweetspotLow && p.Intoxication <= sweetspotHigh
}

// skillBonuses lists every modifier that applies to p rolling for action.
func (e *Engine) skillBonuses(p *domain.Player, action RollAction) []dice.Bonus {
	var bonuses []dice.Bonus
	if inSweetspot(p) {
		bonuses = append(bonuses, dice.Bonus{Label: "Sweetspot", Value: 1})
	}
	other := p.DiceBonus
	if p.HasPenaltyToken {
		bonuses = append(bonuses, dice.Bonus{Label: "Pille", Value: -1})
		other++
	}
	if other != 0 {
		bonuses = append(bonuses, dice.Bonus{Label: "Bonus", Value: other})
	}

	for _, npc := range p.NPCs {
		fx := npc.Effects
		if fx.SkillBonus != 0 {
			bonuses = append(bonuses, dice.Bonus{Label: npc.Name, Value: fx.SkillBonus})
		}
		var v int
		switch action {
		case RollRescue:
			v = fx.RescueBonus
		case RollEntry:
			v = fx.BouncerBonus
		case RollChugBeer:
			v = fx.ChugBonus
		}
		if v != 0 {
			bonuses = append(bonuses, dice.Bonus{Label: npc.Name, Value: v})
		}
	}

	if action == RollCallFriend && e.place != nil && e.place.Effects.RingFriendBonus {
		v := 1
		if e.phase == domain.PhaseVors {
			v = 2
		}
		bonuses = append(bonuses, dice.Bonus{Label: e.place.Name, Value: v})
	}
	return bonuses
}
