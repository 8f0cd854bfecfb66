package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// ParseLevel maps a configured level name to a BotLevel.
func ParseLevel(name string) (BotLevel, error) {
	switch level := BotLevel(strings.ToLower(strings.TrimSpace(name))); level {
	case BotLevelRandom, BotLevelSensible:
		return level, nil
	case "":
		return BotLevelRandom, nil
	default:
		return "", fmt.Errorf("unknown bot level: %q", name)
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	switch level {
	case BotLevelRandom:
		return &RandomBot{rng: rng}, nil
	case BotLevelSensible:
		return NewSensibleBot(DefaultTuning), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}
