package bot

import (
	"testing"

	"smor/internal/config"
	"smor/internal/domain"
)

func TestSweetspotRule(t *testing.T) {
	rule := &SweetspotRule{Reward: 1, RescuePenalty: 10, SoberPenalty: 0.5}
	tests := []struct {
		name  string
		intox float64
		card  domain.Card
		want  float64
	}{
		{"lands in the sweetspot", 0.5, beer, 1},
		{"reaches the rescue line", 4, shot, -10},
		{"clamps at the top", 4.5, shot, -10},
		{"sober again", 0.5, water, -0.5},
		{"above the sweetspot", 3, drink, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &SelectionContext{
				Player: &domain.Player{Intoxication: tt.intox},
				Cards:  []domain.Card{tt.card},
				Rules:  config.DefaultRules(),
			}
			RunPipeline(ctx, []SelectionRule{rule})
			if ctx.Scores[0] != tt.want {
				t.Fatalf("score = %v, want %v", ctx.Scores[0], tt.want)
			}
		})
	}
}

func TestPipelineOrderAndPicks(t *testing.T) {
	ctx := &SelectionContext{
		Player: &domain.Player{Intoxication: 1},
		Cards:  []domain.Card{knowBeer, callFriend, shot},
		Town:   2,
		Rules:  config.DefaultRules(),
	}
	RunPipeline(ctx, []SelectionRule{
		&FavorScoreRule{Weight: 1},
		&CallFriendRule{Weight: 3},
		&KnowBeerRule{Weight: 2},
	})

	want := []float64{-2, 3, 1}
	for i, w := range want {
		if ctx.Scores[i] != w {
			t.Fatalf("scores = %v, want %v", ctx.Scores, want)
		}
	}
	if ctx.Best() != 1 || ctx.Worst() != 0 {
		t.Fatalf("best %d worst %d", ctx.Best(), ctx.Worst())
	}
}
