package domain

import "strings"

// Phase is one of the three fixed stages of an evening.
type Phase int

const (
	// PhaseVors is the pre-party, always the first phase.
	PhaseVors Phase = iota
	// PhaseFest is the main party.
	PhaseFest
	// PhaseNach is the after-party and the last phase.
	PhaseNach
)

// Phases lists every phase in play order.
var Phases = []Phase{PhaseVors, PhaseFest, PhaseNach}

var phaseNames = map[Phase]string{
	PhaseVors: "Vors",
	PhaseFest: "Fest",
	PhaseNach: "Nach",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}

// ParsePhase maps a phase name ("Vors", "vors", "Fest", ...) back to a Phase.
func ParsePhase(name string) (Phase, bool) {
	for p, s := range phaseNames {
		if strings.EqualFold(s, name) {
			return p, true
		}
	}
	return 0, false
}

// PlayerStatus tells whether a player takes part in the current phase.
type PlayerStatus string

const (
	// StatusActive players are dealt cards and take turns.
	StatusActive PlayerStatus = "active"
	// StatusBlocked players were stopped by a bouncer and sit out until the phase ends.
	StatusBlocked PlayerStatus = "blocked"
)

// PlayerView is a read-only copy of a player for presentation.
type PlayerView struct {
	ID              string
	Name            string
	Human           bool
	Intoxication    float64
	Score           int
	HandSize        int
	Hand            []Card
	NPCs            []string
	Status          PlayerStatus
	DiceBonus       int
	HasPenaltyToken bool
}

// Snapshot is the state pushed to displays after every visible change.
type Snapshot struct {
	GameID        string
	Phase         Phase
	Place         string
	PlaceEffects  []string
	CurrentPlayer string
	Players       []PlayerView
	Town          []string
	DeckSize      int
	Suspended     []string
	Finished      bool
}

// Standing is one row of the end-of-game leaderboard.
type Standing struct {
	Rank         int
	PlayerID     string
	Name         string
	Score        int
	Intoxication float64
}
