package domain

import (
	"encoding/json"
	"fmt"
)

// RewardKind selects which player stat a reward changes.
type RewardKind int

const (
	RewardScore RewardKind = iota
	RewardIntoxication
)

var rewardKindNames = map[RewardKind]string{
	RewardScore:        "score",
	RewardIntoxication: "intoxication",
}

func (k RewardKind) String() string {
	if s, ok := rewardKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalJSON encodes the kind by name.
func (k RewardKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes "score" or "intoxication".
func (k *RewardKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, s := range rewardKindNames {
		if s == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown reward kind %q", name)
}

// Reward is a typed stat change.
type Reward struct {
	Kind   RewardKind `json:"kind"`
	Amount float64    `json:"amount"`
}

// Apply changes the rewarded stat on p.
func (r Reward) Apply(p *Player) {
	switch r.Kind {
	case RewardIntoxication:
		p.AddIntoxication(r.Amount)
	case RewardScore:
		p.AddScore(int(r.Amount))
	}
}

// ChugSpec parameterises a chug attempt.
type ChugSpec struct {
	Item    string `json:"item"`
	Reward  Reward `json:"reward"`
	Penalty int    `json:"penalty"`
	Forced  bool   `json:"forced"`
}
