package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/foodclub/internal/foodadjust"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
	"github.com/yourusername/foodclub/internal/testutil"
)

const sumTolerance = 1e-9

func TestOddsBounds(t *testing.T) {
	tests := []struct {
		name   string
		odds   int
		lo, hi float64
	}{
		{"longest odds", 13, 0, 1.0 / 13},
		{"favourite", 2, 1.0 / 3, 1},
		{"middle", 5, 1.0 / 6, 1.0 / 5},
		{"missing", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := OddsBounds(tt.odds)
			assert.InDelta(t, tt.lo, lo, 1e-12)
			assert.InDelta(t, tt.hi, hi, 1e-12)
		})
	}
}

func TestLegacyPureOddsModel(t *testing.T) {
	round := testutil.FlatRound([models.PiratesPerArena]int{3, 5, 7, 9})
	res := ComputeLegacy(round)

	total := 1.0/3 + 1.0/5 + 1.0/7 + 1.0/9
	for arena := 0; arena < models.ArenaCount; arena++ {
		assert.InDelta(t, (1.0/3)/total, res.Std[arena][1], 1e-12)
		assert.InDelta(t, (1.0/9)/total, res.Std[arena][4], 1e-12)
		assert.InDelta(t, 1.0, res.Std.ArenaSum(arena), sumTolerance)
	}
	assert.Equal(t, res.Std, res.Used)
}

func TestLegacyNormalizesSampleRound(t *testing.T) {
	res := ComputeLegacy(testutil.SampleRound(t))

	for arena := 0; arena < models.ArenaCount; arena++ {
		assert.InDelta(t, 1.0, res.Std.ArenaSum(arena), sumTolerance, "arena %d", arena)
		for p := 1; p <= models.PiratesPerArena; p++ {
			assert.GreaterOrEqual(t, res.Std[arena][p], res.Min[arena][p]-1e-12, "arena %d pirate %d", arena, p)
			assert.LessOrEqual(t, res.Std[arena][p], res.Max[arena][p]+1e-12, "arena %d pirate %d", arena, p)
		}
		assert.Zero(t, res.Std[arena][0])
	}
}

func TestLegacySampleValues(t *testing.T) {
	res := ComputeLegacy(testutil.SampleRound(t))

	want := map[int][4]float64{
		0: {0.490236, 0.064269, 0.257089, 0.188405},
		3: {0.519587, 0.153611, 0.076802, 0.25},
	}
	for arena, row := range want {
		for i, p := range row {
			assert.InDelta(t, p, res.Std[arena][i+1], 1e-5, "arena %d pirate %d", arena, i+1)
		}
	}
}

func TestLegacyPositiveFoodRaisesWeight(t *testing.T) {
	tables := testutil.BuildTables(t, testutil.PirateSpec{}, map[int]testutil.PirateSpec{
		1: {Positive: map[int]int{5: 2}},
	})
	round := testutil.FlatRound([models.PiratesPerArena]int{3, 5, 7, 9})
	round.Foods = &models.FoodMatrix{}
	round.Foods[0] = [models.FoodsPerArena]int{5, 5, 1, 2, 3, 4, 6, 7, 8, 9}

	res := NewLegacy(tables).Compute(round)

	w1 := (1.0 / 3) * math.Exp(LegacyFAScale*4)
	total := w1 + 1.0/5 + 1.0/7 + 1.0/9
	assert.InDelta(t, w1/total, res.Std[0][1], 1e-12)
	assert.Greater(t, res.Std[0][1], res.Std[1][1], "arena without the food is unaffected")
	assert.InDelta(t, 1.0, res.Std.ArenaSum(0), sumTolerance)
}

func TestLegacyMissingOddsFallsBackToCurrent(t *testing.T) {
	round := testutil.FlatRound([models.PiratesPerArena]int{3, 5, 7, 9})
	round.OpeningOdds[2] = [models.PiratesPerArena + 1]int{}

	res := ComputeLegacy(round)
	assert.Equal(t, res.Std[0], res.Std[2])
}

func TestLegacyUnpricedArenaIsUniform(t *testing.T) {
	round := testutil.FlatRound([models.PiratesPerArena]int{3, 5, 7, 9})
	round.OpeningOdds[4] = [models.PiratesPerArena + 1]int{}
	round.CurrentOdds[4] = [models.PiratesPerArena + 1]int{}

	res := ComputeLegacy(round)
	for p := 1; p <= models.PiratesPerArena; p++ {
		assert.InDelta(t, 0.25, res.Std[4][p], sumTolerance)
		assert.Equal(t, 1.0, res.Max[4][p])
	}
	assert.InDelta(t, 1, res.Std.ArenaSum(0), sumTolerance)
}

func TestOddsRanks(t *testing.T) {
	ranks := OddsRanks([models.PiratesPerArena + 1]int{0, 5, 2, 5, 13})
	assert.Equal(t, [models.PiratesPerArena + 1]int{0, 2, 1, 3, 4}, ranks)

	ranks = OddsRanks([models.PiratesPerArena + 1]int{0, 0, 4, 0, 2})
	assert.Equal(t, [models.PiratesPerArena + 1]int{0, 0, 2, 0, 1}, ranks, "pirates without odds are unranked")
}

func TestScore(t *testing.T) {
	c := pirates.Coefficients{Intercept: 0.5, PFA: 0.2, NFA: -0.1, Pos2: -1, Pos3: -2, Pos4: -3}
	adj := foodadjust.Adjustment{Positive: 5, Negative: 4}

	assert.InDelta(t, 0.5+1.0-0.4, Score(c, adj, 1), 1e-12)
	assert.InDelta(t, 0.5+1.0-0.4-3, Score(c, adj, 4), 1e-12)
}

func TestLogitZeroCoefficientsAreUniform(t *testing.T) {
	tables := testutil.BuildTables(t, testutil.PirateSpec{}, nil)
	res := NewLogit(tables).Compute(testutil.SampleRound(t))

	for arena := 0; arena < models.ArenaCount; arena++ {
		for p := 1; p <= models.PiratesPerArena; p++ {
			assert.InDelta(t, 0.25, res.Prob[arena][p], 1e-12)
		}
	}
	assert.Equal(t, res.Prob, res.Used)
}

func TestLogitFollowsOddsRank(t *testing.T) {
	shared := testutil.PirateSpec{Logit: pirates.Coefficients{Pos2: -0.5, Pos3: -1, Pos4: -1.5}}
	tables := testutil.BuildTables(t, shared, nil)
	round := testutil.FlatRound([models.PiratesPerArena]int{9, 2, 13, 4})

	row := NewLogit(tables).ArenaProbabilities(round, 0)

	assert.Greater(t, row[2], row[4])
	assert.Greater(t, row[4], row[1])
	assert.Greater(t, row[1], row[3])
	assert.InDelta(t, math.Exp(-0.5)/(1+math.Exp(-0.5)+math.Exp(-1)+math.Exp(-1.5)), row[4], 1e-12)
}

func TestLogitSampleRound(t *testing.T) {
	res := ComputeLogit(testutil.SampleRound(t))

	for arena := 0; arena < models.ArenaCount; arena++ {
		assert.InDelta(t, 1.0, res.Prob.ArenaSum(arena), sumTolerance, "arena %d", arena)
	}

	want := [4]float64{0.614157, 0.08161, 0.125669, 0.178565}
	for i, p := range want {
		assert.InDelta(t, p, res.Prob[0][i+1], 1e-5)
	}
}

func TestLogitUnknownPirateStillNormalizes(t *testing.T) {
	round := testutil.SampleRound(t)
	round.Pirates[1][2] = 0

	row := NewLogit(nil).ArenaProbabilities(round, 1)
	sum := 0.0
	for p := 1; p <= models.PiratesPerArena; p++ {
		sum += row[p]
	}
	assert.InDelta(t, 1.0, sum, sumTolerance)
}

func TestForName(t *testing.T) {
	m, err := ForName("Logit", nil)
	require.NoError(t, err)
	assert.Equal(t, ModelLogit, m.Name())

	m, err = ForName(ModelLegacy, nil)
	require.NoError(t, err)
	assert.Equal(t, ModelLegacy, m.Name())

	_, err = ForName("bayes", nil)
	assert.Error(t, err)
}

func TestMatrixMatchesCompute(t *testing.T) {
	round := testutil.SampleRound(t)
	legacy := NewLegacy(nil)

	assert.Equal(t, legacy.Compute(round).Std, Matrix(legacy, round))
	assert.Equal(t, models.ProbabilityMatrix{}, Matrix(legacy, nil))
}

func TestApplyOverrides(t *testing.T) {
	base := ComputeLogit(testutil.SampleRound(t)).Used

	out := ApplyOverrides(base, map[models.Slot]float64{
		{Arena: 0, Pirate: 1}: 0.9,
		{Arena: 1, Pirate: 2}: 1.7,
		{Arena: 2, Pirate: 0}: 0.5,
		{Arena: 9, Pirate: 1}: 0.5,
	})

	assert.Equal(t, 0.9, out[0][1])
	assert.Equal(t, 1.0, out[1][2])
	assert.Equal(t, base[2], out[2])
	assert.NotEqual(t, 0.9, base[0][1], "input matrix is not modified")

	devs := Deviations(out, sumTolerance)
	require.Len(t, devs, 2)
	assert.Equal(t, 0, devs[0].Arena)
	assert.Equal(t, 1, devs[1].Arena)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 0.0, Clamp(math.Inf(1)))
	assert.Equal(t, 0.0, Clamp(-0.2))
	assert.Equal(t, 1.0, Clamp(1.2))
	assert.Equal(t, 0.4, Clamp(0.4))
}
