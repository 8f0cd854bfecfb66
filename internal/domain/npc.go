package domain

// NPCEffects are the typed bonuses an NPC grants the player who recruited it.
type NPCEffects struct {
	// Applied once when the NPC joins a player.
	IntoxicationBonus float64
	ScoreBonus        int

	// Applied at the start of each of the owner's turns.
	TurnStartIntoxication float64
	TurnStartScore        int

	// Situational dice bonuses.
	RescueBonus  int
	BouncerBonus int
	SkillBonus   int
	ChugBonus    int

	// Dring forces the owner to pass a roll before acting.
	Dring bool
	// DoubleBeer adds intoxication to beer and drink cards.
	DoubleBeer float64
	// EnhanceKnowBeer raises the owner's own know-beer reward.
	EnhanceKnowBeer bool
	// BringsFriend grants a random unused NPC when recruited.
	BringsFriend bool
}

// NPC is a recruitable character.
type NPC struct {
	Name    string
	Text    string
	Effects NPCEffects
}

// Clone returns a copy safe to hand to a player.
func (n *NPC) Clone() *NPC {
	c := *n
	return &c
}
