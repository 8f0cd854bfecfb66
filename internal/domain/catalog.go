package domain

// Catalog is the static data a game is played with.
type Catalog struct {
	Cards  []Card
	Places []*Place
	NPCs   []*NPC
}

// CardByID looks a card up by its canonical ID.
func (c *Catalog) CardByID(id string) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// CardBySpecial returns the first card carrying the given special effect.
func (c *Catalog) CardBySpecial(effect SpecialEffect) (Card, bool) {
	for _, card := range c.Cards {
		if card.Special == effect {
			return card, true
		}
	}
	return Card{}, false
}

// NPCByName looks an NPC up by name.
func (c *Catalog) NPCByName(name string) (*NPC, bool) {
	for _, n := range c.NPCs {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
