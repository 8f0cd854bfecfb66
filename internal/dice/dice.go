// Package dice resolves the six-sided rolls used by every skill check in SMØR.
package dice

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Sides is the number of faces on every die in the game.
const Sides = 6

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Bonus is a labelled modifier added to a skill roll.
type Bonus struct {
	Label string
	Value int
}

// Result is the audit trail of a single roll.
type Result struct {
	Face    int
	Total   int
	Target  int
	Bonuses []Bonus
	Success bool
}

// Modifier returns the summed bonus applied to the face.
func (r Result) Modifier() int {
	return r.Total - r.Face
}

// String renders the roll as "4 +2 (Sweetspot +1, Los Tacos +1) = 6 vs 4".
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", r.Face)
	if len(r.Bonuses) > 0 {
		parts := make([]string, 0, len(r.Bonuses))
		for _, bonus := range r.Bonuses {
			parts = append(parts, fmt.Sprintf("%s %+d", bonus.Label, bonus.Value))
		}
		fmt.Fprintf(&b, " %+d (%s)", r.Modifier(), strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, " = %d vs %d", r.Total, r.Target)
	return b.String()
}

// Sum adds up the values of the given bonuses.
func Sum(bonuses []Bonus) int {
	total := 0
	for _, b := range bonuses {
		total += b.Value
	}
	return total
}

// Resolve evaluates a skill roll for an already known face.
// Success is true iff face plus all bonuses reaches the target.
func Resolve(face, target int, bonuses []Bonus) Result {
	total := face + Sum(bonuses)
	return Result{
		Face:    face,
		Total:   total,
		Target:  target,
		Bonuses: append([]Bonus(nil), bonuses...),
		Success: total >= target,
	}
}

// Roller draws faces from a Source.
type Roller struct {
	src Source
}

// NewRoller builds a roller over src, or over a time-seeded source when src is nil.
func NewRoller(src Source) *Roller {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Roller{src: src}
}

// Face rolls one die.
func (r *Roller) Face() int {
	return r.src.Intn(Sides) + 1
}

// RollSkill rolls one die and resolves it against target with bonuses.
func (r *Roller) RollSkill(target int, bonuses []Bonus) Result {
	return Resolve(r.Face(), target, bonuses)
}

// RollRaw rolls one die with no modifiers.
func (r *Roller) RollRaw() int {
	return r.Face()
}

// Scripted is a deterministic Source that replays a fixed list of faces.
// Once exhausted it starts over from the first face.
type Scripted struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewScripted returns a source yielding faces in order. Faces outside 1..6 are clamped.
func NewScripted(faces ...int) *Scripted {
	clamped := make([]int, len(faces))
	for i, f := range faces {
		switch {
		case f < 1:
			f = 1
		case f > Sides:
			f = Sides
		}
		clamped[i] = f
	}
	return &Scripted{faces: clamped}
}

// Intn implements Source. n is expected to be Sides.
func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faces) == 0 {
		return 0
	}
	face := s.faces[s.next%len(s.faces)]
	s.next++
	return (face - 1) % n
}

// Remaining reports how many scripted faces have not been consumed yet.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.faces) {
		return 0
	}
	return len(s.faces) - s.next
}
