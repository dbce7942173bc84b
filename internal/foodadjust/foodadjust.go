// Package foodadjust sums the positive and negative food adjustments each
// pirate receives from the foods served in its arena.
package foodadjust

import (
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
)

// Adjustment holds the two FA sums of one pirate. Both are non-negative
// magnitudes; they are separate features, never pre-subtracted.
type Adjustment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Net returns Positive - Negative
func (a Adjustment) Net() int {
	return a.Positive - a.Negative
}

// Table holds adjustments per arena and pirate slot 1..4; slot 0 is unused.
type Table [models.ArenaCount][models.PiratesPerArena + 1]Adjustment

// Aggregator computes food adjustments against a set of reference tables
type Aggregator struct {
	tables *pirates.Tables
}

// NewAggregator creates an aggregator; nil tables selects the embedded data.
func NewAggregator(tables *pirates.Tables) *Aggregator {
	if tables == nil {
		tables = pirates.Default()
	}
	return &Aggregator{tables: tables}
}

// ForPirate sums one pirate's adjustments over its arena's ten foods.
// Rounds without food data yield a zero adjustment.
func (g *Aggregator) ForPirate(round *models.RoundData, arena, pirate int) Adjustment {
	if !round.HasFoods() {
		return Adjustment{}
	}
	pirateID := round.PirateID(arena, pirate)
	if pirateID == 0 {
		return Adjustment{}
	}

	var adj Adjustment
	for _, food := range round.Foods[arena] {
		adj.Positive += g.tables.PositiveFA(pirateID, food)
		adj.Negative += g.tables.NegativeFA(pirateID, food)
	}
	return adj
}

// Compute returns the adjustment table of every pirate in the round
func (g *Aggregator) Compute(round *models.RoundData) Table {
	var table Table
	if !round.HasFoods() {
		return table
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		for pirate := 1; pirate <= models.PiratesPerArena; pirate++ {
			table[arena][pirate] = g.ForPirate(round, arena, pirate)
		}
	}
	return table
}

// Compute is a shorthand using the embedded reference tables
func Compute(round *models.RoundData) Table {
	return NewAggregator(nil).Compute(round)
}
