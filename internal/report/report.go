package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
	"github.com/yourusername/foodclub/internal/simulation"
)

// Reporter renders results with pirate and arena names
type Reporter struct {
	tables *pirates.Tables
}

// New creates a reporter; nil tables selects the embedded data
func New(tables *pirates.Tables) *Reporter {
	if tables == nil {
		tables = pirates.Default()
	}
	return &Reporter{tables: tables}
}

// Result renders the summary, the bets and, when present, the settlement
// and diagnostics of a calculation.
func (r *Reporter) Result(res calculator.Result, round *models.RoundData) string {
	if !res.Calculated {
		return fmt.Sprintf("Round %d not calculated: %v\n", res.Round, res.Err)
	}
	var b strings.Builder
	b.WriteString(r.Summary(res))
	if res.Totals.Bets > 0 {
		b.WriteString(r.Bets(res, round))
	}
	if res.Settlement != nil {
		b.WriteString(r.Settlement(res))
	}
	if len(res.Diagnostics) > 0 {
		b.WriteString(Diagnostics(res.Diagnostics))
	}
	return b.String()
}

// Summary renders the totals of a calculation as a key/value table
func (r *Reporter) Summary(res calculator.Result) string {
	t := Table{Title: fmt.Sprintf("Round %d (%s)", res.Round, res.Model), Right: map[int]bool{1: true}}
	t.AddRow("Bets", Count(res.Totals.Bets))
	t.AddRow("Stake", Money(res.Totals.Stake))
	t.AddRow("Expected ratio", Ratio(res.Totals.ExpectedRatio))
	t.AddRow("Net expected", Signed(res.Totals.NetExpected))
	t.AddRow("Expected winnings", Money(int(res.Totals.ExpectedWinnings+0.5)))
	t.AddRow("Winnings std dev", Count(int(res.PayoutTables.Winnings.StdDev+0.5)))
	t.AddRow("Chance of any win", Percent(res.Totals.WinProbability))
	t.AddRow("Max winnings", Money(res.Totals.MaxWinnings))
	return t.Render()
}

// Bets renders one row per active bet
func (r *Reporter) Bets(res calculator.Result, round *models.RoundData) string {
	t := Table{
		Title:   "Bets",
		Headers: []string{"#"},
		Right:   map[int]bool{0: true},
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		t.Headers = append(t.Headers, r.tables.ArenaName(arena))
	}
	first := len(t.Headers)
	t.Headers = append(t.Headers, "Odds", "Prob", "ER", "Amount", "Payoff", "Max bet")
	for i := first; i < len(t.Headers); i++ {
		t.Right[i] = true
	}

	for key := 1; key <= len(res.Bets); key++ {
		bet, ok := res.Bets[key]
		if !ok || bet.IsEmpty() {
			continue
		}
		row := []string{strconv.Itoa(key)}
		for arena, pirate := range bet.Choices {
			row = append(row, r.pickName(round, arena, pirate))
		}
		row = append(row,
			Count(bet.Odds),
			Percent(bet.Probability),
			Ratio(bet.ExpectedRatio),
			Count(bet.Amount),
			Count(bet.Payoff),
			MaxBet(bet.MaxBet),
		)
		t.AddRow(row...)
	}
	return t.Render()
}

// Probabilities renders every pirate's odds and model estimates
func (r *Reporter) Probabilities(res calculator.Result, round *models.RoundData) string {
	t := Table{
		Title:   fmt.Sprintf("Round %d probabilities", res.Round),
		Headers: []string{"Arena", "Pirate", "Odds", "Min", "Std", "Max", "Logit", "Used", "FA"},
		Right:   map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true},
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		for p := 1; p <= models.PiratesPerArena; p++ {
			fa := res.PirateFAs[arena][p]
			t.AddRow(
				r.tables.ArenaName(arena),
				r.pickName(round, arena, p),
				strconv.Itoa(res.UsedOdds[arena][p]),
				Percent(res.LegacyProbabilities.Min[arena][p]),
				Percent(res.LegacyProbabilities.Std[arena][p]),
				Percent(res.LegacyProbabilities.Max[arena][p]),
				Percent(res.LogitProbabilities.Prob[arena][p]),
				Percent(res.UsedProbabilities[arena][p]),
				fmt.Sprintf("+%d/-%d", fa.Positive, fa.Negative),
			)
		}
	}
	return t.Render()
}

// Payout renders one payout distribution
func Payout(title string, table models.PayoutTable) string {
	t := Table{
		Title:   title,
		Headers: []string{"Value", "Prob", "Cumulative", "At least"},
		Right:   map[int]bool{0: true, 1: true, 2: true, 3: true},
	}
	for _, e := range table.Entries {
		t.AddRow(Count(e.Value), Percent(e.Probability), Percent(e.Cumulative), Percent(e.Tail))
	}
	t.AddRow("mean "+Count(int(table.Mean+0.5)), "", "", "sd "+Count(int(table.StdDev+0.5)))
	return t.Render()
}

// Settlement renders the realised outcome of a resolved round
func (r *Reporter) Settlement(res calculator.Result) string {
	s := res.Settlement
	hits := make([]string, len(s.Hits))
	for i, h := range s.Hits {
		hits[i] = "#" + strconv.Itoa(h)
	}
	if len(hits) == 0 {
		hits = []string{"none"}
	}

	t := Table{Title: "Settlement", Right: map[int]bool{1: true}}
	t.AddRow("Winning bets", strings.Join(hits, " "))
	t.AddRow("Total odds", Count(s.Odds))
	t.AddRow("Winnings", Money(s.Winnings))
	t.AddRow("Spent", Money(s.Spent))
	t.AddRow("Profit", Signed(float64(s.Profit)))
	return t.Render()
}

// Simulation renders a Monte Carlo run next to the exact mean
func Simulation(sim simulation.Result) string {
	t := Table{Title: fmt.Sprintf("Simulation (%s rounds)", Count(sim.Iterations)), Right: map[int]bool{1: true}}
	t.AddRow("Seed", strconv.FormatInt(sim.Seed, 10))
	t.AddRow("Simulated mean", Count(int(sim.MeanWinnings+0.5)))
	t.AddRow("Exact mean", Count(int(sim.ExactMean+0.5)))
	t.AddRow("Deviation", decimalString(sim.Deviation())+" se")
	t.AddRow("Chance of any win", Percent(sim.ProbabilityOfWin))
	t.AddRow("Chance of profit", Percent(sim.ProbabilityOfProfit))
	for _, k := range []string{"p5", "p50", "p95"} {
		t.AddRow("Winnings "+k, Count(int(sim.Percentiles[k]+0.5)))
	}
	return t.Render()
}

// Diagnostics renders the inputs that were clamped or ignored
func Diagnostics(diags []models.Diagnostic) string {
	t := Table{Title: "Input corrections", Headers: []string{"Field", "Arena", "Index", "Value", "Note"}}
	for _, d := range diags {
		t.AddRow(d.Field, strconv.Itoa(d.Arena), strconv.Itoa(d.Index), strconv.Itoa(d.Value), d.Message)
	}
	return t.Render()
}

func (r *Reporter) pickName(round *models.RoundData, arena, pirate int) string {
	if pirate == 0 {
		return "-"
	}
	if round == nil {
		return "#" + strconv.Itoa(pirate)
	}
	return r.tables.PirateName(round.PirateID(arena, pirate))
}
