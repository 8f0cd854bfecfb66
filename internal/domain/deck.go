package domain

import "math/rand"

// DefaultCardCount is used for catalog entries that do not set a count.
const DefaultCardCount = 5

// Deck is the shared draw pile. Cards are drawn from the end of the slice.
type Deck struct {
	catalog      []Card
	defaultCount int
	rng          *rand.Rand
	cards        []Card
}

// NewDeck expands the catalog by count and shuffles it.
func NewDeck(catalog []Card, rng *rand.Rand, defaultCount int) *Deck {
	if defaultCount <= 0 {
		defaultCount = DefaultCardCount
	}
	d := &Deck{
		catalog:      append([]Card(nil), catalog...),
		defaultCount: defaultCount,
		rng:          rng,
	}
	d.Rebuild()
	return d
}

// Rebuild replaces the pile with a freshly shuffled copy of the full catalog.
func (d *Deck) Rebuild() {
	d.cards = ExpandCatalog(d.catalog, d.defaultCount)
	d.rng.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
}

// ExpandCatalog returns count copies of each catalog entry in catalog order.
func ExpandCatalog(catalog []Card, defaultCount int) []Card {
	out := make([]Card, 0, len(catalog)*defaultCount)
	for _, c := range catalog {
		n := c.Count
		if n <= 0 {
			n = defaultCount
		}
		for i := 0; i < n; i++ {
			out = append(out, c)
		}
	}
	return out
}

// Draw pops n cards, rebuilding the pile whenever it runs dry.
// It returns fewer than n cards only if the catalog is empty.
func (d *Deck) Draw(n int) []Card {
	drawn := make([]Card, 0, n)
	for len(drawn) < n {
		if len(d.cards) == 0 {
			d.Rebuild()
			if len(d.cards) == 0 {
				break
			}
		}
		last := len(d.cards) - 1
		drawn = append(drawn, d.cards[last])
		d.cards = d.cards[:last]
	}
	return drawn
}

// Return puts cards back at the bottom of the pile.
func (d *Deck) Return(cards ...Card) {
	d.cards = append(append([]Card(nil), cards...), d.cards...)
}

// Len reports the cards left before the next rebuild.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining pile, top card last.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}
