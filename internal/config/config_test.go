package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smor/internal/domain"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	if r.HandSize != 5 || r.RescueThreshold != 5 || r.RescueTarget != 4 || r.ChugTarget != 6 {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if r.BeerChug.Forced || !r.IceChug.Forced {
		t.Fatalf("beer chug should be optional and ice chug forced")
	}
	if r.BeerChug.Reward.Kind != domain.RewardScore || r.IceChug.Reward.Kind != domain.RewardIntoxication {
		t.Fatalf("chug reward kinds wrong: %+v / %+v", r.BeerChug.Reward, r.IceChug.Reward)
	}
}

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	c, err := Parse([]byte(`{"rules":{"hand_size":4,"ice_chug":{"item":"ice","reward":{"kind":"score","amount":1},"penalty":2,"forced":true}},"pacing_millis":250}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Rules.HandSize != 4 {
		t.Fatalf("hand size = %d, want 4", c.Rules.HandSize)
	}
	if c.Rules.RescueTarget != 4 {
		t.Fatalf("rescue target should keep default, got %d", c.Rules.RescueTarget)
	}
	if c.Rules.IceChug.Reward.Kind != domain.RewardScore || c.Rules.IceChug.Penalty != 2 {
		t.Fatalf("ice chug = %+v", c.Rules.IceChug)
	}
	if c.Pacing() != 250*time.Millisecond {
		t.Fatalf("pacing = %v", c.Pacing())
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "BadJSON", body: `{"rules":`},
		{name: "ZeroHand", body: `{"rules":{"hand_size":0}}`},
		{name: "UnknownRewardKind", body: `{"rules":{"beer_chug":{"reward":{"kind":"gold","amount":1}}}}`},
		{name: "ThresholdTooHigh", body: `{"rules":{"rescue_threshold":7}}`},
		{name: "FractionalScoreReward", body: `{"rules":{"beer_chug":{"reward":{"kind":"score","amount":1.5}}}}`},
		{name: "FractionalIceScoreReward", body: `{"rules":{"ice_chug":{"reward":{"kind":"score","amount":0.5}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.body)); err == nil {
				t.Fatalf("expected error for %s", tt.body)
			}
		})
	}
}

func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	if err := os.WriteFile(path, []byte(`{"decision_timeout_seconds":30,"bot_level":"sensible"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DecisionTimeout() != 30*time.Second || c.BotLevel != "sensible" {
		t.Fatalf("loaded config = %+v", c)
	}

	if _, err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if len(s.Players) != 3 || s.BotLevel != "random" {
		t.Fatalf("settings = %+v", s)
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("SMOR_PLAYERS", "Ada,Bo")
	t.Setenv("SMOR_SEED", "42")
	t.Setenv("SMOR_BOT_LEVEL", "sensible")
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Seed != 42 || len(s.Players) != 2 || s.Players[1] != "Bo" {
		t.Fatalf("settings = %+v", s)
	}
	c, err := s.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.BotLevel != "sensible" {
		t.Fatalf("bot level = %q", c.BotLevel)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("SMOR_SEED", "not-an-int")
	_, err := LoadSettings()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
