package probability

import (
	"math"
	"sort"

	"github.com/yourusername/foodclub/internal/foodadjust"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
)

// LogitResult holds the logit probabilities. Used equals Prob.
type LogitResult struct {
	Prob models.ProbabilityMatrix `json:"prob"`
	Used models.ProbabilityMatrix `json:"used"`
}

// Logit scores each pirate with its regression coefficients and takes a
// softmax over the arena.
type Logit struct {
	tables *pirates.Tables
	fa     *foodadjust.Aggregator
}

// NewLogit creates the logit model; nil tables selects the embedded data.
func NewLogit(tables *pirates.Tables) *Logit {
	if tables == nil {
		tables = pirates.Default()
	}
	return &Logit{tables: tables, fa: foodadjust.NewAggregator(tables)}
}

// Name returns the model name
func (m *Logit) Name() string {
	return ModelLogit
}

// Compute returns the logit matrix of a round
func (m *Logit) Compute(round *models.RoundData) LogitResult {
	prob := Matrix(m, round)
	return LogitResult{Prob: prob, Used: prob}
}

// ComputeLogit runs the logit model with the embedded tables
func ComputeLogit(round *models.RoundData) LogitResult {
	return NewLogit(nil).Compute(round)
}

// Score returns the linear predictor of one pirate given its food
// adjustment and its odds rank (1 = shortest odds).
func Score(c pirates.Coefficients, adj foodadjust.Adjustment, rank int) float64 {
	s := c.Intercept + c.PFA*float64(adj.Positive) + c.NFA*float64(adj.Negative)
	switch rank {
	case 2:
		s += c.Pos2
	case 3:
		s += c.Pos3
	case 4:
		s += c.Pos4
	}
	return s
}

// ArenaProbabilities returns the softmax of the arena's four scores
func (m *Logit) ArenaProbabilities(round *models.RoundData, arena int) Row {
	var out Row
	ranks := OddsRanks(round.CurrentOdds[arena])

	var scores Row
	best := math.Inf(-1)
	for p := 1; p <= models.PiratesPerArena; p++ {
		coef := m.tables.Logit(round.PirateID(arena, p))
		scores[p] = Score(coef, m.fa.ForPirate(round, arena, p), ranks[p])
		best = math.Max(best, scores[p])
	}

	total := 0.0
	for p := 1; p <= models.PiratesPerArena; p++ {
		out[p] = math.Exp(scores[p] - best)
		total += out[p]
	}
	for p := 1; p <= models.PiratesPerArena; p++ {
		out[p] /= total
	}
	return out
}

// OddsRanks ranks an arena's pirates by ascending odds, 1 being the
// favourite. Equal odds keep slot order. Pirates without odds get rank 0.
func OddsRanks(odds [models.PiratesPerArena + 1]int) [models.PiratesPerArena + 1]int {
	slots := make([]int, 0, models.PiratesPerArena)
	for p := 1; p <= models.PiratesPerArena; p++ {
		if odds[p] > 0 {
			slots = append(slots, p)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return odds[slots[i]] < odds[slots[j]]
	})

	var ranks [models.PiratesPerArena + 1]int
	for i, p := range slots {
		ranks[p] = i + 1
	}
	return ranks
}
