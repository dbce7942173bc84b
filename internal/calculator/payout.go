package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/foodclub/internal/betcode"
	"github.com/yourusername/foodclub/internal/models"
)

// Outcome is one joint result of the arenas some active bet picks in.
// Winners holds 0 for arenas no bet touches.
type Outcome struct {
	Winners  models.Choices
	Binary   int
	Weight   float64
	Odds     int
	Winnings int
}

// Outcomes enumerates the 4^k winner combinations of the k arenas the
// active bets populate, weighted by the product of the winners'
// probabilities. Zero-weight combinations are skipped.
func Outcomes(active []models.BetCalculation, probs models.ProbabilityMatrix) []Outcome {
	mask := 0
	for _, b := range active {
		mask |= b.Binary
	}
	var arenas []int
	for arena := 0; arena < models.ArenaCount; arena++ {
		if mask&betcode.ArenaMask(arena) != 0 {
			arenas = append(arenas, arena)
		}
	}

	var out []Outcome
	var walk func(depth int, winners models.Choices, weight float64)
	walk = func(depth int, winners models.Choices, weight float64) {
		if weight == 0 {
			return
		}
		if depth == len(arenas) {
			o := Outcome{Winners: winners, Binary: betcode.Encode(winners), Weight: weight}
			for _, b := range active {
				if betcode.Hits(b.Binary, o.Binary) {
					o.Odds += b.Odds
					o.Winnings += b.Payoff
				}
			}
			out = append(out, o)
			return
		}
		arena := arenas[depth]
		for pirate := 1; pirate <= models.PiratesPerArena; pirate++ {
			winners[arena] = pirate
			walk(depth+1, winners, weight*probs[arena][pirate])
		}
	}
	walk(0, models.Choices{}, 1)
	return out
}

// ComputePayoutTables builds the total-odds and total-winnings
// distributions of a set of active bets. Empty bets are ignored; with no
// active bets both tables hold a single zero entry of probability one.
func ComputePayoutTables(active []models.BetCalculation, probs models.ProbabilityMatrix) models.PayoutTables {
	outcomes := Outcomes(active, probs)

	oddsMass := make(map[int]float64)
	winMass := make(map[int]float64)
	for _, o := range outcomes {
		oddsMass[o.Odds] += o.Weight
		winMass[o.Winnings] += o.Weight
	}

	return models.PayoutTables{
		Odds:     buildTable(oddsMass),
		Winnings: buildTable(winMass),
	}
}

// buildTable sorts the mass by value and fills cumulative (from the lowest
// value up) and tail (from the highest value down).
func buildTable(mass map[int]float64) models.PayoutTable {
	entries := make([]models.PayoutEntry, 0, len(mass))
	for v, p := range mass {
		entries = append(entries, models.PayoutEntry{Value: v, Probability: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })

	values := make([]float64, len(entries))
	weights := make([]float64, len(entries))
	running := 0.0
	for i := range entries {
		running += entries[i].Probability
		entries[i].Cumulative = running
		values[i] = float64(entries[i].Value)
		weights[i] = entries[i].Probability
	}
	tail := 0.0
	for i := len(entries) - 1; i >= 0; i-- {
		tail += entries[i].Probability
		entries[i].Tail = tail
	}

	table := models.PayoutTable{Entries: entries}
	if len(entries) > 0 && floats.Sum(weights) > 0 {
		table.Mean = stat.Mean(values, weights)
		table.StdDev = math.Sqrt(stat.MomentAbout(2, values, table.Mean, weights))
	}
	return table
}
