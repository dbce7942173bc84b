package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Game dimensions and limits
const (
	ArenaCount      = 5
	PiratesPerArena = 4
	FoodsPerArena   = 10
	PirateCount     = 20
	FoodCount       = 40

	MinOdds   = 2
	MaxOdds   = 13
	MaxPayout = 1_000_000

	// NoMaxBet marks a bet whose max bet cannot be computed (no odds).
	NoMaxBet = -1000
)

// OddsMatrix holds odds per arena, pirate slots 1..4. Slot 0 is unused.
type OddsMatrix [ArenaCount][PiratesPerArena + 1]int

// ProbabilityMatrix holds win probabilities per arena, pirate slots 1..4.
type ProbabilityMatrix [ArenaCount][PiratesPerArena + 1]float64

// PirateMatrix holds pirate identities (1..20) per arena, 0-indexed slots.
type PirateMatrix [ArenaCount][PiratesPerArena]int

// FoodMatrix holds the ten food identities (1..40) served in each arena.
type FoodMatrix [ArenaCount][FoodsPerArena]int

// Slot addresses a single pirate in a round: arena 0..4, pirate 1..4.
type Slot struct {
	Arena  int `json:"arena"`
	Pirate int `json:"pirate"`
}

// Valid reports whether the slot points at a real pirate.
func (s Slot) Valid() bool {
	return s.Arena >= 0 && s.Arena < ArenaCount && s.Pirate >= 1 && s.Pirate <= PiratesPerArena
}

// OddsChange is a single odds movement recorded during a round
type OddsChange struct {
	Arena  int       `json:"arena"`
	Pirate int       `json:"pirate"`
	Old    int       `json:"old"`
	New    int       `json:"new"`
	T      time.Time `json:"t"`
}

// RoundData is the immutable input of one Food Club round.
// Foods and Winners are optional: nil means the data is not available.
type RoundData struct {
	Round       int              `json:"round"`
	Pirates     PirateMatrix     `json:"pirates"`
	OpeningOdds OddsMatrix       `json:"openingOdds"`
	CurrentOdds OddsMatrix       `json:"currentOdds"`
	Foods       *FoodMatrix      `json:"foods,omitempty"`
	Winners     *[ArenaCount]int `json:"winners,omitempty"`
	Changes     []OddsChange     `json:"changes,omitempty"`
	Start       *time.Time       `json:"start,omitempty"`
	LastChange  *time.Time       `json:"lastChange,omitempty"`
}

// rawRound mirrors the published round document with unchecked shapes.
type rawRound struct {
	Round       int          `json:"round"`
	Pirates     [][]int      `json:"pirates"`
	OpeningOdds [][]int      `json:"openingOdds"`
	CurrentOdds [][]int      `json:"currentOdds"`
	Foods       [][]int      `json:"foods"`
	Winners     []int        `json:"winners"`
	Changes     []OddsChange `json:"changes"`
	Start       *time.Time   `json:"start"`
	LastChange  *time.Time   `json:"lastChange"`
}

// ParseRound decodes a round document, rejecting matrices of the wrong shape.
func ParseRound(data []byte) (*RoundData, error) {
	var raw rawRound
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRound, err)
	}

	round := &RoundData{
		Round:      raw.Round,
		Changes:    raw.Changes,
		Start:      raw.Start,
		LastChange: raw.LastChange,
	}

	if err := checkShape("pirates", raw.Pirates, PiratesPerArena); err != nil {
		return nil, err
	}
	for a := range raw.Pirates {
		copy(round.Pirates[a][:], raw.Pirates[a])
	}

	if err := checkShape("openingOdds", raw.OpeningOdds, PiratesPerArena+1); err != nil {
		return nil, err
	}
	if err := checkShape("currentOdds", raw.CurrentOdds, PiratesPerArena+1); err != nil {
		return nil, err
	}
	for a := 0; a < ArenaCount; a++ {
		copy(round.OpeningOdds[a][:], raw.OpeningOdds[a])
		copy(round.CurrentOdds[a][:], raw.CurrentOdds[a])
	}

	if len(raw.Foods) > 0 {
		if err := checkShape("foods", raw.Foods, FoodsPerArena); err != nil {
			return nil, err
		}
		foods := &FoodMatrix{}
		for a := range raw.Foods {
			copy(foods[a][:], raw.Foods[a])
		}
		round.Foods = foods
	}

	if len(raw.Winners) > 0 {
		if len(raw.Winners) != ArenaCount {
			return nil, fmt.Errorf("%w: winners has %d entries, want %d", ErrMalformedRound, len(raw.Winners), ArenaCount)
		}
		winners := [ArenaCount]int{}
		copy(winners[:], raw.Winners)
		round.Winners = &winners
	}

	return round, nil
}

func checkShape(field string, rows [][]int, width int) error {
	if len(rows) != ArenaCount {
		return fmt.Errorf("%w: %s has %d arenas, want %d", ErrMalformedRound, field, len(rows), ArenaCount)
	}
	for a, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: %s arena %d has %d entries, want %d", ErrMalformedRound, field, a, len(row), width)
		}
	}
	return nil
}

// Validate checks the round is usable for calculation. Single unpriced
// arenas are left to Sanitize; a round with no odds at all is rejected.
func (r *RoundData) Validate() error {
	if r == nil {
		return ErrNilRound
	}
	for a := 0; a < ArenaCount; a++ {
		if r.CurrentOdds.Priced(a) {
			return nil
		}
	}
	return fmt.Errorf("%w: round %d has no current odds", ErrMalformedRound, r.Round)
}

// HasFoods reports whether food data is available for the round
func (r *RoundData) HasFoods() bool {
	return r != nil && r.Foods != nil
}

// IsResolved reports whether every arena has a winner
func (r *RoundData) IsResolved() bool {
	if r == nil || r.Winners == nil {
		return false
	}
	for _, w := range r.Winners {
		if w < 1 || w > PiratesPerArena {
			return false
		}
	}
	return true
}

// PirateID returns the identity of the pirate in the given slot, 0 if unknown
func (r *RoundData) PirateID(arena, pirate int) int {
	s := Slot{Arena: arena, Pirate: pirate}
	if !s.Valid() {
		return 0
	}
	return r.Pirates[arena][pirate-1]
}

// ChangesFor returns the odds changes recorded for one pirate, oldest first.
func (r *RoundData) ChangesFor(arena, pirate int) []OddsChange {
	var out []OddsChange
	for _, c := range r.Changes {
		if c.Arena == arena && c.Pirate == pirate {
			out = append(out, c)
		}
	}
	return out
}

// OddsAt replays recorded changes on top of the opening odds up to and
// including time t.
func (r *RoundData) OddsAt(t time.Time) OddsMatrix {
	odds := r.OpeningOdds
	for _, c := range r.Changes {
		if c.T.After(t) {
			continue
		}
		s := Slot{Arena: c.Arena, Pirate: c.Pirate}
		if s.Valid() {
			odds[c.Arena][c.Pirate] = c.New
		}
	}
	return odds
}
