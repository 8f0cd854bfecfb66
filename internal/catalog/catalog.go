// Package catalog loads the static cards, venues and NPCs a game is played with.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"smor/internal/domain"
)

const (
	cardsFile  = "data/cards.json"
	placesFile = "data/places.json"
	npcsFile   = "data/npcs.json"
)

//go:embed data/*.json
var embeddedFS embed.FS

type cardFile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	OnlyName     string  `json:"only_name"`
	Icon         string  `json:"icon"`
	Intoxication float64 `json:"intoxication"`
	Score        int     `json:"score"`
	Special      string  `json:"special"`
	Text         string  `json:"text"`
	Count        int     `json:"count"`
}

type placeFile struct {
	Name               string                 `json:"name"`
	Text               string                 `json:"text"`
	Effects            map[string]interface{} `json:"effects"`
	EffectDescriptions map[string]string      `json:"effect_descriptions"`
	HasBouncer         bool                   `json:"has_bouncer"`
}

type npcFile struct {
	Name    string                 `json:"name"`
	Text    string                 `json:"text"`
	Effects map[string]interface{} `json:"effects"`
}

// Warnings lists catalog entries that loaded with parts ignored.
type Warnings []string

// Default loads the embedded catalog.
func Default() (*domain.Catalog, Warnings, error) {
	return Load(embeddedFS)
}

// Load reads cards, places and NPCs from fsys. Unknown effect keys and special
// tags are dropped and reported in Warnings rather than failing the load.
func Load(fsys fs.FS) (*domain.Catalog, Warnings, error) {
	var (
		cards  []cardFile
		places []placeFile
		npcs   []npcFile
		warn   Warnings
	)
	if err := readJSON(fsys, cardsFile, &cards); err != nil {
		return nil, nil, err
	}
	if err := readJSON(fsys, placesFile, &places); err != nil {
		return nil, nil, err
	}
	if err := readJSON(fsys, npcsFile, &npcs); err != nil {
		return nil, nil, err
	}

	cat := &domain.Catalog{}
	for _, c := range cards {
		special, ok := domain.ParseSpecialEffect(c.Special)
		if !ok {
			warn = append(warn, fmt.Sprintf("card %s: unknown special %q, treated as plain card", c.ID, c.Special))
		}
		id := c.ID
		if id == "" {
			id = c.Name
		}
		cat.Cards = append(cat.Cards, domain.Card{
			ID:           id,
			Name:         c.Name,
			OnlyName:     c.OnlyName,
			Icon:         c.Icon,
			Intoxication: c.Intoxication,
			Score:        c.Score,
			Special:      special,
			Text:         c.Text,
			Count:        c.Count,
		})
	}
	for _, p := range places {
		effects, unknown := placeEffects(p.Effects)
		for _, key := range unknown {
			warn = append(warn, fmt.Sprintf("place %s: unknown effect %q", p.Name, key))
		}
		cat.Places = append(cat.Places, &domain.Place{
			Name:               p.Name,
			Text:               p.Text,
			Effects:            effects,
			EffectDescriptions: p.EffectDescriptions,
			HasBouncer:         p.HasBouncer,
		})
	}
	for _, n := range npcs {
		effects, unknown := npcEffects(n.Effects)
		for _, key := range unknown {
			warn = append(warn, fmt.Sprintf("npc %s: unknown effect %q", n.Name, key))
		}
		cat.NPCs = append(cat.NPCs, &domain.NPC{Name: n.Name, Text: n.Text, Effects: effects})
	}
	return cat, warn, nil
}

func readJSON(fsys fs.FS, name string, v interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}
	return nil
}

func placeEffects(raw map[string]interface{}) (domain.PlaceEffects, []string) {
	var (
		e       domain.PlaceEffects
		unknown []string
	)
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "beer_double":
			e.BeerDouble = asBool(v)
		case "beer_as_drink":
			e.BeerAsDrink = asBool(v)
		case "ring_friend_bonus":
			e.RingFriendBonus = asBool(v)
		case "memory_bonus":
			e.RoundScoreBonus = int(asFloat(v))
		case "promille_reduction":
			e.RoundIntoxicationReduction = asFloat(v)
		default:
			// Phase-scoped keys: "<phase>_promille_bonus", "<phase>_rescue_threshold".
			prefix, rest, found := strings.Cut(key, "_")
			phase, ok := domain.ParsePhase(prefix)
			if !found || !ok {
				unknown = append(unknown, key)
				continue
			}
			switch rest {
			case "promille_bonus":
				e.PhaseBonus = &domain.PhaseBonus{Phase: phase, Delta: asFloat(v)}
			case "rescue_threshold":
				threshold := asFloat(v)
				e.Rescue = &domain.RescueOverride{Phase: phase, Threshold: threshold, Target: int(threshold) - 1}
			default:
				unknown = append(unknown, key)
			}
		}
	}
	return e, unknown
}

func npcEffects(raw map[string]interface{}) (domain.NPCEffects, []string) {
	var (
		e       domain.NPCEffects
		unknown []string
	)
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "promille_bonus", "promille_penalty":
			e.IntoxicationBonus += asFloat(v)
		case "memory_bonus":
			e.ScoreBonus = int(asFloat(v))
		case "turn_start_promille":
			e.TurnStartIntoxication = asFloat(v)
		case "turn_start_memory":
			e.TurnStartScore = int(asFloat(v))
		case "rescue_bonus":
			e.RescueBonus = int(asFloat(v))
		case "bouncer_bonus":
			e.BouncerBonus = int(asFloat(v))
		case "skill_bonus":
			e.SkillBonus = int(asFloat(v))
		case "chug_bonus":
			e.ChugBonus = int(asFloat(v))
		case "dring_effect":
			e.Dring = asBool(v)
		case "double_beer":
			// Older data uses true; treat it as the usual half step.
			if b, ok := v.(bool); ok {
				if b {
					e.DoubleBeer = 0.5
				}
				continue
			}
			e.DoubleBeer = asFloat(v)
		case "enhance_know_beer":
			e.EnhanceKnowBeer = asBool(v)
		case "brings_random_npc":
			e.BringsFriend = asBool(v)
		default:
			unknown = append(unknown, key)
		}
	}
	return e, unknown
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return false
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
	}
	return 0
}
