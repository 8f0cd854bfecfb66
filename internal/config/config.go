package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"smor/internal/domain"
)

// Rules holds every numeric knob of the game.
type Rules struct {
	HandSize         int     `json:"hand_size"`
	DefaultCardCount int     `json:"default_card_count"`
	TownCapacity     int     `json:"town_capacity"`
	RescueThreshold  float64 `json:"rescue_threshold"`
	RescueTarget     int     `json:"rescue_target"`
	RecruitTarget    int     `json:"recruit_target"`
	RecruitScore     int     `json:"recruit_score"`
	SendAwayTarget   int     `json:"send_away_target"`
	DringTarget      int     `json:"dring_target"`
	ChugTarget       int     `json:"chug_target"`
	IceMatchRange    int     `json:"ice_match_range"`
	LeaderBonus      int     `json:"leader_bonus"`
	VomitBystander   int     `json:"vomit_bystander_bonus"`
	VomitSoberUp     float64 `json:"vomit_sober_up"`

	KnowBeerThreshold float64 `json:"know_beer_threshold"`
	KnowBeerBonus     int     `json:"know_beer_bonus"`
	KnowBeerEnhanced  int     `json:"know_beer_enhanced_bonus"`
	KnowBeerPenalty   int     `json:"know_beer_penalty"`

	BeerChug domain.ChugSpec `json:"beer_chug"`
	IceChug  domain.ChugSpec `json:"ice_chug"`
}

// GameConfig is the on-disk configuration of a game host.
type GameConfig struct {
	Rules Rules `json:"rules"`
	// PacingMillis is the pause between narrated steps. Zero disables pacing.
	PacingMillis int `json:"pacing_millis"`
	// DecisionTimeoutSeconds bounds how long a human decision may stay open. Zero waits forever.
	DecisionTimeoutSeconds int `json:"decision_timeout_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// BotLevel is the policy used for bots that fill empty seats.
	BotLevel string `json:"bot_level"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		HandSize:          5,
		DefaultCardCount:  domain.DefaultCardCount,
		TownCapacity:      3,
		RescueThreshold:   5,
		RescueTarget:      4,
		RecruitTarget:     3,
		RecruitScore:      1,
		SendAwayTarget:    3,
		DringTarget:       3,
		ChugTarget:        6,
		IceMatchRange:     2,
		LeaderBonus:       2,
		VomitBystander:    3,
		VomitSoberUp:      1,
		KnowBeerThreshold: 2,
		KnowBeerBonus:     2,
		KnowBeerEnhanced:  4,
		KnowBeerPenalty:   1,
		BeerChug: domain.ChugSpec{
			Item:    "øl",
			Reward:  domain.Reward{Kind: domain.RewardScore, Amount: 2},
			Penalty: 1,
		},
		IceChug: domain.ChugSpec{
			Item:    "ice",
			Reward:  domain.Reward{Kind: domain.RewardIntoxication, Amount: 0.5},
			Penalty: 1,
			Forced:  true,
		},
	}
}

// Default returns the configuration used when no file is supplied.
func Default() *GameConfig {
	return &GameConfig{
		Rules:                   DefaultRules(),
		BotAutoFillDelaySeconds: 5,
		BotLevel:                "random",
	}
}

// LoadGameConfig reads a JSON configuration. Fields absent from the file keep their defaults.
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON configuration over the defaults.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Rules.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects rule sets the engine cannot run.
func (r Rules) Validate() error {
	switch {
	case r.HandSize <= 0:
		return fmt.Errorf("invalid rules: hand_size must be positive")
	case r.TownCapacity < 0:
		return fmt.Errorf("invalid rules: town_capacity must not be negative")
	case r.RescueThreshold <= domain.MinIntoxication || r.RescueThreshold > domain.MaxIntoxication:
		return fmt.Errorf("invalid rules: rescue_threshold must be in (0, 5]")
	case r.IceMatchRange < 0:
		return fmt.Errorf("invalid rules: ice_match_range must not be negative")
	}
	if err := validateChug("beer_chug", r.BeerChug); err != nil {
		return err
	}
	return validateChug("ice_chug", r.IceChug)
}

// Score is counted in whole points.
func validateChug(name string, spec domain.ChugSpec) error {
	if spec.Reward.Kind == domain.RewardScore && spec.Reward.Amount != math.Trunc(spec.Reward.Amount) {
		return fmt.Errorf("invalid rules: %s score reward must be a whole number, got %v", name, spec.Reward.Amount)
	}
	return nil
}

// Pacing returns the configured pause between narrated steps.
func (c *GameConfig) Pacing() time.Duration {
	return time.Duration(c.PacingMillis) * time.Millisecond
}

// DecisionTimeout returns the configured bound on open decisions.
func (c *GameConfig) DecisionTimeout() time.Duration {
	return time.Duration(c.DecisionTimeoutSeconds) * time.Second
}
