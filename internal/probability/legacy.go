package probability

import (
	"math"

	"github.com/yourusername/foodclub/internal/foodadjust"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
)

// LegacyFAScale is the log-weight shift per point of net food adjustment.
// It is a calibration choice, not a published game constant.
const LegacyFAScale = 0.04

// maxRectifyPasses bounds the clamp-and-rescale loop; each pass fixes at
// least one pirate, so four passes always suffice.
const maxRectifyPasses = models.PiratesPerArena + 1

// LegacyResult holds the three legacy estimates per pirate. Used is Std.
type LegacyResult struct {
	Min  models.ProbabilityMatrix `json:"min"`
	Max  models.ProbabilityMatrix `json:"max"`
	Std  models.ProbabilityMatrix `json:"std"`
	Used models.ProbabilityMatrix `json:"used"`
}

// Legacy estimates probabilities from opening odds bounds, tilted by food
// adjustments and clamped back into the bounds.
type Legacy struct {
	fa    *foodadjust.Aggregator
	scale float64
}

// NewLegacy creates the legacy model; nil tables selects the embedded data.
func NewLegacy(tables *pirates.Tables) *Legacy {
	return &Legacy{fa: foodadjust.NewAggregator(tables), scale: LegacyFAScale}
}

// Name returns the model name
func (l *Legacy) Name() string {
	return ModelLegacy
}

// ArenaProbabilities returns the standard estimate of one arena
func (l *Legacy) ArenaProbabilities(round *models.RoundData, arena int) Row {
	_, _, std := l.arena(round, arena)
	return std
}

// Compute returns the min, max and std matrices of a round
func (l *Legacy) Compute(round *models.RoundData) LegacyResult {
	var res LegacyResult
	if round == nil {
		return res
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		res.Min[arena], res.Max[arena], res.Std[arena] = l.arena(round, arena)
	}
	res.Used = res.Std
	return res
}

// ComputeLegacy runs the legacy model with the embedded tables
func ComputeLegacy(round *models.RoundData) LegacyResult {
	return NewLegacy(nil).Compute(round)
}

// OddsBounds returns the probability interval implied by a pirate's odds.
// Odds of 13 cover every longshot, odds of 2 every favourite.
func OddsBounds(odds int) (lo, hi float64) {
	switch {
	case odds <= 0:
		return 0, 0
	case odds >= models.MaxOdds:
		return 0, 1.0 / float64(models.MaxOdds)
	case odds <= models.MinOdds:
		return 1.0 / float64(models.MinOdds+1), 1
	default:
		return 1.0 / float64(odds+1), 1.0 / float64(odds)
	}
}

// legacyOdds prefers opening odds, falling back to current odds
func legacyOdds(round *models.RoundData, arena, pirate int) int {
	if o := round.OpeningOdds[arena][pirate]; o > 0 {
		return o
	}
	return round.CurrentOdds[arena][pirate]
}

func (l *Legacy) arena(round *models.RoundData, arena int) (lo, hi, std Row) {
	var weights Row
	present := [models.PiratesPerArena + 1]bool{}
	loTotal, hiTotal := 0.0, 0.0

	for p := 1; p <= models.PiratesPerArena; p++ {
		odds := legacyOdds(round, arena, p)
		if odds <= 0 {
			continue
		}
		present[p] = true
		lo[p], hi[p] = OddsBounds(odds)
		loTotal += lo[p]
		hiTotal += hi[p]

		adj := l.fa.ForPirate(round, arena, p)
		weights[p] = models.ImpliedProbability(odds) * math.Exp(l.scale*float64(adj.Net()))
	}

	if hiTotal == 0 {
		return unpricedArena()
	}

	// Tighten each bound against what the other pirates can absorb.
	for p := 1; p <= models.PiratesPerArena; p++ {
		if !present[p] {
			continue
		}
		tightLo := math.Max(lo[p], 1-(hiTotal-hi[p]))
		tightHi := math.Min(hi[p], 1-(loTotal-lo[p]))
		if tightLo > tightHi {
			tightLo, tightHi = 0, 1
		}
		lo[p], hi[p] = tightLo, tightHi
	}

	std = rectify(weights, lo, hi, present)
	return lo, hi, std
}

// unpricedArena spreads the mass evenly over an arena with no odds
func unpricedArena() (lo, hi, std Row) {
	for p := 1; p <= models.PiratesPerArena; p++ {
		hi[p] = 1
		std[p] = 1.0 / models.PiratesPerArena
	}
	return lo, hi, std
}

// rectify normalizes weights to 1, then repeatedly clamps estimates that
// leave their bounds and rescales the remaining free pirates. Each pass
// clamps only the side (above or below) with the larger total violation.
func rectify(weights, lo, hi Row, present [models.PiratesPerArena + 1]bool) Row {
	var out Row
	fixed := [models.PiratesPerArena + 1]bool{}

	for pass := 0; pass < maxRectifyPasses; pass++ {
		fixedMass, freeWeight := 0.0, 0.0
		for p := 1; p <= models.PiratesPerArena; p++ {
			if !present[p] {
				continue
			}
			if fixed[p] {
				fixedMass += out[p]
			} else {
				freeWeight += weights[p]
			}
		}
		if freeWeight <= 0 {
			return out
		}

		scale := (1 - fixedMass) / freeWeight
		over, under := 0.0, 0.0
		for p := 1; p <= models.PiratesPerArena; p++ {
			if !present[p] || fixed[p] {
				continue
			}
			out[p] = weights[p] * scale
			switch {
			case out[p] < lo[p]:
				under += lo[p] - out[p]
			case out[p] > hi[p]:
				over += out[p] - hi[p]
			}
		}
		if over == 0 && under == 0 {
			return out
		}

		for p := 1; p <= models.PiratesPerArena; p++ {
			if !present[p] || fixed[p] {
				continue
			}
			switch {
			case over >= under && out[p] > hi[p]:
				out[p], fixed[p] = hi[p], true
			case under > over && out[p] < lo[p]:
				out[p], fixed[p] = lo[p], true
			}
		}
	}
	return out
}
