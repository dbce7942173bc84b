// Package calculator prices Food Club bets: it enumerates the bet space,
// builds payout distributions over arena outcomes and composes both with
// the probability models into one memoized calculation.
package calculator

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/foodadjust"
	"github.com/yourusername/foodclub/internal/logger"
	"github.com/yourusername/foodclub/internal/metrics"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
	"github.com/yourusername/foodclub/internal/probability"
)

// deviationTolerance is how far an arena's mass may drift from 1 before it
// is reported
const deviationTolerance = 1e-6

// Settings selects the model and the user overrides of one calculation
type Settings struct {
	UseLogitModel       bool                    `json:"useLogitModel"`
	CustomOdds          *models.OddsMatrix      `json:"customOdds,omitempty"`
	CustomProbabilities map[models.Slot]float64 `json:"-"`
	BetAmount           int                     `json:"betAmount"`
	IncludeAllBets      bool                    `json:"includeAllBets"`
}

// ModelName returns the name of the selected probability model
func (s Settings) ModelName() string {
	if s.UseLogitModel {
		return probability.ModelLogit
	}
	return probability.ModelLegacy
}

// Totals summarises the active bet set
type Totals struct {
	Bets             int     `json:"bets"`
	Stake            int     `json:"stake"`
	ExpectedRatio    float64 `json:"expectedRatio"`
	NetExpected      float64 `json:"netExpected"`
	ExpectedWinnings float64 `json:"expectedWinnings"`
	WinProbability   float64 `json:"winProbability"`
	MaxWinnings      int     `json:"maxWinnings"`
}

// Result is everything derived from one round and bet set. When Calculated
// is false only Err and Round are set.
type Result struct {
	Calculated          bool                          `json:"calculated"`
	Err                 error                         `json:"-"`
	Round               int                           `json:"round"`
	Model               string                        `json:"model"`
	LegacyProbabilities probability.LegacyResult      `json:"legacyProbabilities"`
	LogitProbabilities  probability.LogitResult       `json:"logitProbabilities"`
	UsedProbabilities   models.ProbabilityMatrix      `json:"usedProbabilities"`
	UsedOdds            models.OddsMatrix             `json:"usedOdds"`
	PirateFAs           foodadjust.Table              `json:"pirateFAs"`
	ArenaRatios         [models.ArenaCount]float64    `json:"arenaRatios"`
	Bets                map[int]models.BetCalculation `json:"bets"`
	PayoutTables        models.PayoutTables           `json:"payoutTables"`
	AllBets             []models.BetCalculation       `json:"allBets,omitempty"`
	WinningBetBinary    int                           `json:"winningBetBinary"`
	Settlement          *Settlement                   `json:"settlement,omitempty"`
	Totals              Totals                        `json:"totals"`
	Diagnostics         []models.Diagnostic           `json:"diagnostics,omitempty"`
}

// ActiveBets returns the priced bets ordered by key
func (r *Result) ActiveBets() []models.BetCalculation {
	keys := make([]int, 0, len(r.Bets))
	for k := range r.Bets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]models.BetCalculation, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.Bets[k])
	}
	return out
}

// estimates are the round-only stage outputs
type estimates struct {
	Legacy probability.LegacyResult
	Logit  probability.LogitResult
	FAs    foodadjust.Table
}

// Calculator is the calculation orchestrator. It keeps no state of its own
// besides the memo cache it is handed.
type Calculator struct {
	cache  Cache
	log    *logger.CalcLogger
	legacy *probability.Legacy
	logit  *probability.Logit
	fa     *foodadjust.Aggregator
}

// Option configures a Calculator
type Option func(*Calculator)

// WithTables swaps the embedded reference tables
func WithTables(tables *pirates.Tables) Option {
	return func(c *Calculator) {
		c.legacy = probability.NewLegacy(tables)
		c.logit = probability.NewLogit(tables)
		c.fa = foodadjust.NewAggregator(tables)
	}
}

// New creates a calculator. A nil cache disables memoization and a nil
// logger discards output.
func New(cache Cache, log logrus.FieldLogger, opts ...Option) *Calculator {
	if cache == nil {
		cache = NoopCache{}
	}
	c := &Calculator{
		cache: cache,
		log:   logger.NewCalcLogger(log),
	}
	WithTables(nil)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InvalidateRound drops every memoized entry of a round
func (c *Calculator) InvalidateRound(round int) int {
	prefix := RoundPrefix(round)
	removed := c.cache.Invalidate(prefix)
	c.log.LogInvalidation(prefix, removed)
	return removed
}

// Calculate runs the full pipeline for the given bet lines. amounts[i] is
// the stake of choices[i]; missing or non-positive amounts fall back to
// settings.BetAmount, and a non-positive BetAmount stakes each bet at its
// max bet. Bets are keyed 1..len(choices) in the result.
func (c *Calculator) Calculate(round *models.RoundData, choices []models.Choices, amounts []int, settings Settings) Result {
	start := time.Now()
	model := settings.ModelName()

	if err := round.Validate(); err != nil {
		res := Result{Err: fmt.Errorf("round not calculated: %w", err), Model: model}
		if round != nil {
			res.Round = round.Round
		}
		c.log.LogNotCalculated(res.Round, res.Err)
		metrics.RecordCalculation(model, "not_calculated", time.Since(start).Seconds())
		return res
	}

	clean, diags := round.Sanitize()
	res := Result{Calculated: true, Round: clean.Round, Model: model}
	roundFP := Fingerprint(clean)

	stageStart := time.Now()
	est := memo(c, stageProbabilities, stageKey(clean.Round, roundFP, stageProbabilities, ""), func() estimates {
		return estimates{
			Legacy: c.legacy.Compute(clean),
			Logit:  c.logit.Compute(clean),
			FAs:    c.fa.Compute(clean),
		}
	})
	metrics.RecordStage(stageProbabilities, time.Since(stageStart).Seconds())

	res.LegacyProbabilities = est.Legacy
	res.LogitProbabilities = est.Logit
	res.PirateFAs = est.FAs

	used := est.Legacy.Used
	if settings.UseLogitModel {
		used = est.Logit.Used
	}
	res.UsedProbabilities = probability.ApplyOverrides(used, settings.CustomProbabilities)
	for _, d := range probability.Deviations(res.UsedProbabilities, deviationTolerance) {
		c.log.LogProbabilityDeviation(clean.Round, model, d.Arena, d.Sum)
	}

	res.UsedOdds = clean.CurrentOdds
	if settings.CustomOdds != nil {
		var oddsDiags []models.Diagnostic
		res.UsedOdds, oddsDiags = models.SanitizeOdds("customOdds", mergeOdds(clean.CurrentOdds, *settings.CustomOdds))
		diags = append(diags, oddsDiags...)
	}
	res.ArenaRatios = ArenaRatios(res.UsedOdds)

	lines, lineDiags := cleanChoices(choices)
	diags = append(diags, lineDiags...)
	stakes := resolveAmounts(len(lines), amounts, settings.BetAmount)
	betsFP := Fingerprint(res.UsedOdds, res.UsedProbabilities, lines, stakes)

	stageStart = time.Now()
	priced := memo(c, stageBets, stageKey(clean.Round, roundFP, stageBets, betsFP), func() []models.BetCalculation {
		out := make([]models.BetCalculation, len(lines))
		for i, line := range lines {
			out[i] = PriceBet(line, res.UsedOdds, res.UsedProbabilities, stakes[i])
		}
		return out
	})
	metrics.RecordStage(stageBets, time.Since(stageStart).Seconds())

	res.Bets = make(map[int]models.BetCalculation, len(priced))
	for i, b := range priced {
		res.Bets[i+1] = b
	}

	stageStart = time.Now()
	res.PayoutTables = memo(c, stagePayout, stageKey(clean.Round, roundFP, stagePayout, betsFP), func() models.PayoutTables {
		return ComputePayoutTables(priced, res.UsedProbabilities)
	})
	res.PayoutTables.Odds.Entries = slices.Clone(res.PayoutTables.Odds.Entries)
	res.PayoutTables.Winnings.Entries = slices.Clone(res.PayoutTables.Winnings.Entries)
	metrics.RecordStage(stagePayout, time.Since(stageStart).Seconds())

	if settings.IncludeAllBets {
		allFP := Fingerprint(res.UsedOdds, res.UsedProbabilities, settings.BetAmount)
		stageStart = time.Now()
		all := memo(c, stageAllBets, stageKey(clean.Round, roundFP, stageAllBets, allFP), func() []models.BetCalculation {
			return ComputeAllBets(res.UsedOdds, res.UsedProbabilities, settings.BetAmount)
		})
		res.AllBets = slices.Clone(all)
		metrics.RecordStage(stageAllBets, time.Since(stageStart).Seconds())
	}

	res.WinningBetBinary = WinningBinary(clean)
	if res.WinningBetBinary != 0 {
		s := Settle(res.Bets, res.WinningBetBinary)
		res.Settlement = &s
		c.log.LogSettlement(clean.Round, s.WinningBinary, s.Hits, s.Winnings)
	}

	res.Totals = summarise(priced, res.PayoutTables)
	res.Diagnostics = diags
	for _, d := range diags {
		c.log.LogDiagnostic(clean.Round, d)
		metrics.RecordSanitized(d.Field)
	}

	elapsed := time.Since(start)
	c.log.LogCalculation(clean.Round, model, res.Totals.Bets, float64(elapsed.Microseconds())/1000)
	metrics.RecordCalculation(model, "success", elapsed.Seconds())
	metrics.UpdateRound(clean.Round)
	metrics.UpdateActiveBets(res.Totals.Bets)
	metrics.UpdateExpectedReturn(res.Totals.ExpectedRatio)
	return res
}

// memo returns the cached value of key, computing and storing it on a miss.
// Entries of an unexpected type count as a miss.
func memo[T any](c *Calculator, stage, key string, compute func() T) T {
	if v, ok := c.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.log.LogCacheHit(stage, key)
			return typed
		}
	}
	c.log.LogCacheMiss(stage, key)
	v := compute()
	c.cache.Set(key, v)
	return v
}

// ArenaRatios returns 1/sum(1/odds) - 1 per arena: the bookmaker margin
// seen from the punter's side. Arenas without odds report 0.
func ArenaRatios(odds models.OddsMatrix) [models.ArenaCount]float64 {
	var out [models.ArenaCount]float64
	for arena := 0; arena < models.ArenaCount; arena++ {
		if total := odds.ImpliedTotal(arena); total > 0 {
			out[arena] = 1/total - 1
		}
	}
	return out
}

// mergeOdds overlays custom odds on the current odds; zero entries keep the
// current value.
func mergeOdds(current, custom models.OddsMatrix) models.OddsMatrix {
	for arena := 0; arena < models.ArenaCount; arena++ {
		for p := 1; p <= models.PiratesPerArena; p++ {
			if custom[arena][p] != 0 {
				current[arena][p] = custom[arena][p]
			}
		}
	}
	return current
}

// cleanChoices zeroes out-of-range picks, reporting each one
func cleanChoices(choices []models.Choices) ([]models.Choices, []models.Diagnostic) {
	out := make([]models.Choices, len(choices))
	var diags []models.Diagnostic
	for i, line := range choices {
		for arena, pirate := range line {
			if pirate < 0 || pirate > models.PiratesPerArena {
				diags = append(diags, models.Diagnostic{
					Field:   "bets",
					Arena:   arena,
					Index:   i + 1,
					Value:   pirate,
					Message: "invalid pick ignored",
				})
				line[arena] = 0
			}
		}
		out[i] = line
	}
	return out, diags
}

func resolveAmounts(n int, amounts []int, fallback int) []int {
	out := make([]int, n)
	for i := range out {
		if i < len(amounts) && amounts[i] > 0 {
			out[i] = amounts[i]
		} else {
			out[i] = fallback
		}
	}
	return out
}

func summarise(bets []models.BetCalculation, tables models.PayoutTables) Totals {
	var t Totals
	for _, b := range bets {
		if b.IsEmpty() {
			continue
		}
		t.Bets++
		t.Stake += b.Amount
		t.ExpectedRatio += b.ExpectedRatio
		t.NetExpected += b.NetExpected
	}
	t.ExpectedWinnings = tables.Winnings.Mean
	t.WinProbability = tables.Odds.ProbabilityAtLeast(1)
	t.MaxWinnings = tables.Winnings.Max()
	return t
}
