package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/simulation"
	"github.com/yourusername/foodclub/internal/testutil"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1,000,000 NP", Money(1_000_000))
	assert.Equal(t, "12,345", Count(12345))
	assert.Equal(t, "1.235:1", Ratio(1.23456))
	assert.Equal(t, "0.000:1", Ratio(0))
	assert.Equal(t, "12.35%", Percent(0.123456))
	assert.Equal(t, "100.00%", Percent(1))
	assert.Equal(t, "+1,235", Signed(1234.6))
	assert.Equal(t, "-50", Signed(-50.2))
	assert.Equal(t, "0", Signed(0))
	assert.Equal(t, "-", MaxBet(models.NoMaxBet))
	assert.Equal(t, "1,388", MaxBet(1388))
}

func TestTableRender(t *testing.T) {
	tbl := Table{
		Title:   "Odds",
		Headers: []string{"Pirate", "Odds"},
		Right:   map[int]bool{1: true},
	}
	tbl.AddRow("Dan", "2")
	tbl.AddRow("Sproggie", "13")

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line), "ragged line %q", line)
	}
	assert.Contains(t, out, "| Dan      |    2 |")
	assert.Contains(t, out, "| Sproggie |   13 |")
	assert.Contains(t, lines[1], "Odds")
}

func TestTableRenderWideRunes(t *testing.T) {
	tbl := Table{Headers: []string{"名前", "x"}}
	tbl.AddRow("ab", "1")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line))
	}
	assert.Empty(t, (&Table{}).Render())
}

func calculate(t *testing.T, round *models.RoundData) calculator.Result {
	t.Helper()
	res := calculator.New(nil, nil).Calculate(round, []models.Choices{
		{1, 2, 0, 0, 0},
		{1, 2, 1, 1, 2},
	}, nil, calculator.Settings{BetAmount: 100})
	require.True(t, res.Calculated)
	return res
}

func TestResult(t *testing.T) {
	round := testutil.SampleRound(t)
	out := New(nil).Result(calculate(t, round), round)

	assert.Contains(t, out, "Round 8765 (legacy)")
	assert.Contains(t, out, "Stake")
	assert.Contains(t, out, "200 NP")
	assert.Contains(t, out, "Shipwreck")
	// pirate 2 sits in slot 1 of arena 0
	assert.Contains(t, out, "Sproggie")
	assert.NotContains(t, out, "Settlement")
}

func TestResultResolved(t *testing.T) {
	round := testutil.ResolvedRound(t)
	out := New(nil).Result(calculate(t, round), round)

	assert.Contains(t, out, "Settlement")
	assert.Contains(t, out, "#1 #2")
}

func TestResultNotCalculated(t *testing.T) {
	out := New(nil).Result(calculator.Result{Round: 3, Err: errors.New("no odds")}, nil)
	assert.Equal(t, "Round 3 not calculated: no odds\n", out)
}

func TestProbabilities(t *testing.T) {
	round := testutil.SampleRound(t)
	out := New(nil).Probabilities(calculate(t, round), round)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title block, header block and one row per pirate
	assert.Len(t, lines, 2+3+models.ArenaCount*models.PiratesPerArena+1)
	assert.Contains(t, out, "+4/-2")
}

func TestPayout(t *testing.T) {
	res := calculate(t, testutil.SampleRound(t))
	out := Payout("Winnings", res.PayoutTables.Winnings)

	assert.Contains(t, out, "Winnings")
	assert.Contains(t, out, "100.00%")
	assert.Contains(t, out, "mean ")
}

func TestSimulationAndDiagnostics(t *testing.T) {
	out := Simulation(simulation.Result{
		Iterations:       20000,
		Seed:             7,
		MeanWinnings:     1234.4,
		ExactMean:        1200,
		StandardError:    20,
		ProbabilityOfWin: 0.25,
		Percentiles:      map[string]float64{"p5": 0, "p50": 0, "p95": 3000},
	})
	assert.Contains(t, out, "Simulation (20,000 rounds)")
	assert.Contains(t, out, "1.72 se")
	assert.Contains(t, out, "25.00%")

	diag := Diagnostics([]models.Diagnostic{{Field: "currentOdds", Arena: 1, Index: 2, Value: 20, Message: "odds clamped to 13"}})
	assert.Contains(t, diag, "odds clamped to 13")
	assert.Contains(t, diag, "currentOdds")
}
