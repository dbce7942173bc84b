package models

// ImpliedProbability returns the implied probability of decimal odds
func ImpliedProbability(odds int) float64 {
	if odds <= 0 {
		return 0
	}
	return 1.0 / float64(odds)
}

// ImpliedTotal returns the sum of implied probabilities of one arena
func (m OddsMatrix) ImpliedTotal(arena int) float64 {
	total := 0.0
	for p := 1; p <= PiratesPerArena; p++ {
		total += ImpliedProbability(m[arena][p])
	}
	return total
}

// Priced reports whether any pirate of the arena has odds
func (m OddsMatrix) Priced(arena int) bool {
	for p := 1; p <= PiratesPerArena; p++ {
		if m[arena][p] != 0 {
			return true
		}
	}
	return false
}

// Get returns the odds at a slot, 0 when the slot is invalid.
func (m OddsMatrix) Get(s Slot) int {
	if !s.Valid() {
		return 0
	}
	return m[s.Arena][s.Pirate]
}

// ArenaSum returns the probability mass of pirates 1..4 in one arena
func (m ProbabilityMatrix) ArenaSum(arena int) float64 {
	total := 0.0
	for p := 1; p <= PiratesPerArena; p++ {
		total += m[arena][p]
	}
	return total
}

// Get returns the probability at a slot, 0 when the slot is invalid.
func (m ProbabilityMatrix) Get(s Slot) float64 {
	if !s.Valid() {
		return 0
	}
	return m[s.Arena][s.Pirate]
}
