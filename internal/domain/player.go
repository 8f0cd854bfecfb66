package domain

import "math"

// Intoxication bounds. Every mutation clamps into this range.
const (
	MinIntoxication = 0.0
	MaxIntoxication = 5.0
)

// Player holds the state of one participant.
type Player struct {
	ID              string
	Name            string
	Human           bool
	Intoxication    float64
	Score           int
	Hand            []Card
	NPCs            []*NPC
	Status          PlayerStatus
	DiceBonus       int
	HasPenaltyToken bool

	LastPlayedCardID       string
	LastPlayedIntoxication float64
}

// NewPlayer returns an active player with an empty hand.
func NewPlayer(id, name string, human bool) *Player {
	return &Player{ID: id, Name: name, Human: human, Status: StatusActive}
}

// AddIntoxication applies delta and clamps the result to [0, 5].
func (p *Player) AddIntoxication(delta float64) {
	p.Intoxication = math.Max(MinIntoxication, math.Min(MaxIntoxication, p.Intoxication+delta))
}

// AddScore applies delta to the score. Scores may go negative.
func (p *Player) AddScore(delta int) {
	p.Score += delta
}

// AddDiceBonus adjusts the temporary dice bonus accumulator.
func (p *Player) AddDiceBonus(delta int) {
	p.DiceBonus += delta
}

// IsActive reports whether the player takes part in the current phase.
func (p *Player) IsActive() bool {
	return p.Status == StatusActive
}

// HasCards reports whether the hand is non-empty.
func (p *Player) HasCards() bool {
	return len(p.Hand) > 0
}

// TakeCard removes and returns the card at index i.
func (p *Player) TakeCard(i int) (Card, bool) {
	if i < 0 || i >= len(p.Hand) {
		return Card{}, false
	}
	c := p.Hand[i]
	p.Hand = RemoveAt(p.Hand, i)
	return c, true
}

// HasNPC reports whether an NPC with the given name is recruited.
func (p *Player) HasNPC(name string) bool {
	for _, n := range p.NPCs {
		if n.Name == name {
			return true
		}
	}
	return false
}

// Recruit adds npc unless one with the same name is already present.
func (p *Player) Recruit(npc *NPC) bool {
	if npc == nil || p.HasNPC(npc.Name) {
		return false
	}
	p.NPCs = append(p.NPCs, npc)
	return true
}

// Dismiss removes and returns the NPC at index i.
func (p *Player) Dismiss(i int) (*NPC, bool) {
	if i < 0 || i >= len(p.NPCs) {
		return nil, false
	}
	n := p.NPCs[i]
	p.NPCs = RemoveAt(p.NPCs, i)
	return n, true
}

// RecordPlayed remembers the last drink card and its intoxication delta.
func (p *Player) RecordPlayed(c Card) {
	p.LastPlayedCardID = c.ID
	p.LastPlayedIntoxication = c.Intoxication
}

// View returns a presentation copy of the player.
func (p *Player) View(withHand bool) PlayerView {
	v := PlayerView{
		ID:              p.ID,
		Name:            p.Name,
		Human:           p.Human,
		Intoxication:    p.Intoxication,
		Score:           p.Score,
		HandSize:        len(p.Hand),
		Status:          p.Status,
		DiceBonus:       p.DiceBonus,
		HasPenaltyToken: p.HasPenaltyToken,
	}
	if withHand {
		v.Hand = append([]Card(nil), p.Hand...)
	}
	for _, n := range p.NPCs {
		v.NPCs = append(v.NPCs, n.Name)
	}
	return v
}
