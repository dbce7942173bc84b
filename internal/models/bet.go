package models

import "fmt"

// Choices is one bet line: a pirate slot (1..4) per arena, 0 for no pick.
type Choices [ArenaCount]int

// IsEmpty reports whether no arena has a pick
func (c Choices) IsEmpty() bool {
	return c == Choices{}
}

// Picks returns the number of arenas with a pick
func (c Choices) Picks() int {
	n := 0
	for _, p := range c {
		if p != 0 {
			n++
		}
	}
	return n
}

// Validate checks every entry is 0..4
func (c Choices) Validate() error {
	for a, p := range c {
		if p < 0 || p > PiratesPerArena {
			return fmt.Errorf("%w: arena %d has pirate %d", ErrInvalidChoice, a, p)
		}
	}
	return nil
}

// Contains reports whether every pick in other is also picked in c
func (c Choices) Contains(other Choices) bool {
	for a := range c {
		if other[a] != 0 && other[a] != c[a] {
			return false
		}
	}
	return true
}

// BetCalculation is one priced bet line. Odds and Probability are products
// over the picked arenas; the empty bet is never priced.
type BetCalculation struct {
	Binary        int     `json:"binary"`
	Choices       Choices `json:"choices"`
	Odds          int     `json:"odds"`
	Probability   float64 `json:"probability"`
	Amount        int     `json:"amount"`
	Payoff        int     `json:"payoff"`
	ExpectedRatio float64 `json:"expectedRatio"`
	NetExpected   float64 `json:"netExpected"`
	MaxBet        int     `json:"maxBet"`
}

// IsEmpty reports whether the bet picks no pirate
func (b BetCalculation) IsEmpty() bool {
	return b.Binary == 0
}
