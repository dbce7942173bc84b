// Package simulation samples arena winners from a probability matrix and
// compares the simulated winnings of a bet set with its exact payout
// distribution.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/foodclub/internal/betcode"
	"github.com/yourusername/foodclub/internal/metrics"
	"github.com/yourusername/foodclub/internal/models"
)

// DefaultIterations is used when Config.Iterations is not positive
const DefaultIterations = 10000

// Config configures a simulation run
type Config struct {
	Iterations int
	Seed       int64
}

// Result summarises the simulated winnings
type Result struct {
	Iterations          int                `json:"iterations"`
	Seed                int64              `json:"seed"`
	MeanWinnings        float64            `json:"meanWinnings"`
	StdWinnings         float64            `json:"stdWinnings"`
	MeanOdds            float64            `json:"meanOdds"`
	ProbabilityOfWin    float64            `json:"probabilityOfWin"`
	ProbabilityOfProfit float64            `json:"probabilityOfProfit"`
	Percentiles         map[string]float64 `json:"percentiles"`
	ExactMean           float64            `json:"exactMean"`
	StandardError       float64            `json:"standardError"`
	Distribution        []float64          `json:"-"`
}

// Deviation returns how many standard errors the simulated mean lies from
// the exact mean.
func (r Result) Deviation() float64 {
	if r.StandardError == 0 {
		return 0
	}
	return math.Abs(r.MeanWinnings-r.ExactMean) / r.StandardError
}

// Run simulates the active bets. exact is the winnings table the
// calculator built for the same bets and is only used for comparison.
func Run(ctx context.Context, active []models.BetCalculation, probs models.ProbabilityMatrix, exact models.PayoutTable, cfg Config) (Result, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	winnings := make([]float64, cfg.Iterations)
	odds := make([]float64, cfg.Iterations)
	stake := 0
	for _, b := range active {
		if !b.IsEmpty() {
			stake += b.Amount
		}
	}

	wins, profits := 0, 0
	for i := 0; i < cfg.Iterations; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("simulation cancelled after %d iterations: %w", i, err)
			}
		}
		winner := betcode.Encode(sampleWinners(rng, probs))
		total, totalOdds := 0, 0
		for _, b := range active {
			if !b.IsEmpty() && betcode.Hits(b.Binary, winner) {
				total += b.Payoff
				totalOdds += b.Odds
			}
		}
		winnings[i] = float64(total)
		odds[i] = float64(totalOdds)
		if totalOdds > 0 {
			wins++
		}
		if total > stake {
			profits++
		}
	}

	mean, std := stat.MeanStdDev(winnings, nil)
	n := float64(cfg.Iterations)
	res := Result{
		Iterations:          cfg.Iterations,
		Seed:                seed,
		MeanWinnings:        mean,
		StdWinnings:         std,
		MeanOdds:            stat.Mean(odds, nil),
		ProbabilityOfWin:    float64(wins) / n,
		ProbabilityOfProfit: float64(profits) / n,
		Percentiles:         percentiles(winnings, []float64{0.05, 0.5, 0.95}),
		ExactMean:           exact.Mean,
		StandardError:       exact.StdDev / math.Sqrt(n),
		Distribution:        winnings,
	}
	metrics.RecordSimulation()
	return res, nil
}

// sampleWinners draws one winner per arena from the arena's probabilities
// scaled to unit mass, the same measure the exact table's weighted mean
// uses. Arenas with no probability mass get no winner.
func sampleWinners(rng *rand.Rand, probs models.ProbabilityMatrix) models.Choices {
	var winners models.Choices
	for arena := 0; arena < models.ArenaCount; arena++ {
		total := probs.ArenaSum(arena)
		if total <= 0 {
			continue
		}
		u := rng.Float64() * total
		for p := 1; p <= models.PiratesPerArena; p++ {
			u -= probs[arena][p]
			if u < 0 || p == models.PiratesPerArena {
				winners[arena] = p
				break
			}
		}
	}
	return winners
}

func percentiles(values []float64, levels []float64) map[string]float64 {
	out := make(map[string]float64, len(levels))
	if len(values) == 0 {
		return out
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for _, p := range levels {
		out[fmt.Sprintf("p%.0f", p*100)] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return out
}
