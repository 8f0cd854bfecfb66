package domain

// Well-known card IDs referenced by game rules.
const (
	CardBeer  = "drinkBeer"
	CardDrink = "drinkDrink"
	CardShot  = "shot"
	CardIce   = "drinkIce"
)

// SpecialEffect is the closed set of card behaviours beyond the numeric deltas.
type SpecialEffect int

const (
	SpecialNone SpecialEffect = iota
	SpecialChugBeer
	SpecialChugIce
	SpecialCallFriend
	SpecialKnowBeer
	SpecialBongChoice
	SpecialRoundDrinks
	SpecialIcing
)

var specialNames = map[SpecialEffect]string{
	SpecialNone:        "",
	SpecialChugBeer:    "chug_beer",
	SpecialChugIce:     "chug_ice",
	SpecialCallFriend:  "call_friend",
	SpecialKnowBeer:    "know_beer",
	SpecialBongChoice:  "bong_choice",
	SpecialRoundDrinks: "round_drinks",
	SpecialIcing:       "icing",
}

func (s SpecialEffect) String() string {
	if name, ok := specialNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSpecialEffect maps a catalog tag to a SpecialEffect. Unknown tags are
// reported with ok=false and treated as SpecialNone.
func ParseSpecialEffect(tag string) (SpecialEffect, bool) {
	if tag == "" {
		return SpecialNone, true
	}
	for effect, name := range specialNames {
		if name == tag {
			return effect, true
		}
	}
	return SpecialNone, false
}

// IsChug reports whether the tag triggers a chug attempt before the base effect.
func (s SpecialEffect) IsChug() bool {
	return s == SpecialChugBeer || s == SpecialChugIce
}

// Card is a single card definition. Cards are values; the deck holds copies.
type Card struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	OnlyName     string        `json:"only_name,omitempty"`
	Icon         string        `json:"icon,omitempty"`
	Intoxication float64       `json:"intoxication"`
	Score        int           `json:"score"`
	Special      SpecialEffect `json:"-"`
	Text         string        `json:"text,omitempty"`
	Count        int           `json:"count,omitempty"`
}

// IsBeer reports whether the card is the plain beer card venues react to.
func (c Card) IsBeer() bool {
	return c.ID == CardBeer
}

// IsDrinkable reports whether NPC drink enhancers apply to the card.
func (c Card) IsDrinkable() bool {
	return c.ID == CardBeer || c.ID == CardDrink
}

// Label returns the short label when set, otherwise the display name.
func (c Card) Label() string {
	if c.OnlyName != "" {
		return c.OnlyName
	}
	return c.Name
}
