package dice

import (
	"math/rand"
	"testing"
)

func TestResolveSuccessIffTotalReachesTarget(t *testing.T) {
	tests := []struct {
		name    string
		face    int
		target  int
		bonuses []Bonus
		want    bool
	}{
		{name: "ExactHit", face: 4, target: 4, want: true},
		{name: "OneShort", face: 3, target: 4, want: false},
		{name: "BonusLifts", face: 3, target: 4, bonuses: []Bonus{{Label: "Sweetspot", Value: 1}}, want: true},
		{name: "PenaltySinks", face: 4, target: 4, bonuses: []Bonus{{Label: "Pille", Value: -1}}, want: false},
		{name: "MixedBonuses", face: 2, target: 6, bonuses: []Bonus{{"A", 3}, {"B", -1}, {"C", 2}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.face, tt.target, tt.bonuses)
			if got.Success != tt.want {
				t.Fatalf("success = %v, want %v (total %d)", got.Success, tt.want, got.Total)
			}
			if got.Total != tt.face+Sum(tt.bonuses) {
				t.Fatalf("total = %d, want %d", got.Total, tt.face+Sum(tt.bonuses))
			}
		})
	}
}

func TestResolveExhaustive(t *testing.T) {
	for face := 1; face <= Sides; face++ {
		for bonus := -3; bonus <= 3; bonus++ {
			for target := 1; target <= 8; target++ {
				res := Resolve(face, target, []Bonus{{Label: "b", Value: bonus}})
				want := face+bonus >= target
				if res.Success != want {
					t.Fatalf("face=%d bonus=%d target=%d success=%v", face, bonus, target, res.Success)
				}
			}
		}
	}
}

func TestRollerFacesStayOnDie(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(7)))
	for i := 0; i < 500; i++ {
		f := r.RollRaw()
		if f < 1 || f > Sides {
			t.Fatalf("face %d out of range", f)
		}
	}
}

func TestScriptedReplaysFaces(t *testing.T) {
	src := NewScripted(6, 1, 9, 0)
	r := NewRoller(src)
	want := []int{6, 1, 6, 1, 6}
	for i, w := range want {
		if got := r.RollRaw(); got != w {
			t.Fatalf("roll %d = %d, want %d", i, got, w)
		}
	}
}

func TestResultString(t *testing.T) {
	res := Resolve(4, 4, []Bonus{{Label: "Sweetspot", Value: 1}})
	if got, want := res.String(), "4 +1 (Sweetspot +1) = 5 vs 4"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
