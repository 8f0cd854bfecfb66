package domain

// RemoveAt returns s without the element at index i. The input slice is not modified.
func RemoveAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// LowestAvailableSeat returns the first free seat index, or -1 when every seat is taken.
func LowestAvailableSeat(seats []string) int {
	for i, userID := range seats {
		if userID == "" {
			return i
		}
	}
	return -1
}

// CountActiveWithCards returns how many active players still hold cards.
func CountActiveWithCards(players []*Player) int {
	n := 0
	for _, p := range players {
		if p.IsActive() && p.HasCards() {
			n++
		}
	}
	return n
}

// CountCards tallies a card multiset by ID.
func CountCards(cards []Card) map[string]int {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[c.ID]++
	}
	return counts
}
