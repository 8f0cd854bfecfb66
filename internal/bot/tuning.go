package bot

// Tuning weighs the sensible bot's card scoring.
type Tuning struct {
	// ScoreWeight multiplies a card's printed score.
	ScoreWeight float64
	// SweetspotReward is added when a card keeps intoxication within [1, 3].
	SweetspotReward float64
	// RescuePenalty is subtracted when a card pushes intoxication to the rescue threshold.
	RescuePenalty float64
	// SoberPenalty is subtracted when a card leaves the player at zero intoxication.
	SoberPenalty float64
	// CallFriendWeight rewards calling a friend while the town has someone to call.
	CallFriendWeight float64
	// KnowBeerWeight rewards know-beer when the player clears its threshold.
	KnowBeerWeight float64
	// TradeThreshold triggers a trade when the best card scores below it.
	TradeThreshold float64
	// DeclineNPCBelow declines an optional NPC whose value is below it.
	DeclineNPCBelow float64
}

// DefaultTuning favours points while staying inside the sweetspot.
var DefaultTuning = Tuning{
	ScoreWeight:      1.0,
	SweetspotReward:  1.5,
	RescuePenalty:    4.0,
	SoberPenalty:     0.5,
	CallFriendWeight: 2.0,
	KnowBeerWeight:   2.0,
	TradeThreshold:   -1.0,
	DeclineNPCBelow:  0,
}
