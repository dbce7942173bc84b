package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampOdds(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 2}, {1, 2}, {2, 2}, {7, 7}, {13, 13}, {14, 13}, {99, 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampOdds(tt.in), "odds %d", tt.in)
	}
}

func TestSanitize(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)
	round.Pirates[2][1] = 27
	round.CurrentOdds[1][4] = 20
	round.Foods = &FoodMatrix{}
	round.Foods[0] = [FoodsPerArena]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 41}
	round.Winners = &[ArenaCount]int{1, 9, 0, 0, 0}

	clean, diags := round.Sanitize()
	require.NotNil(t, clean)

	assert.Equal(t, 0, clean.Pirates[2][1])
	assert.Equal(t, 13, clean.CurrentOdds[1][4])
	assert.Equal(t, 0, clean.Foods[0][9])
	assert.Equal(t, 0, clean.Winners[1])

	// foods absent from every other arena are zero ids and reported too
	fields := map[string]int{}
	for _, d := range diags {
		fields[d.Field]++
	}
	assert.Equal(t, 1, fields["pirates"])
	assert.Equal(t, 1, fields["currentOdds"])
	assert.Equal(t, 1, fields["winners"])
	assert.Equal(t, 1+4*FoodsPerArena, fields["foods"])

	// the input is untouched
	assert.Equal(t, 27, round.Pirates[2][1])
	assert.Equal(t, 20, round.CurrentOdds[1][4])
	assert.Equal(t, 41, round.Foods[0][9])
	assert.Equal(t, 9, round.Winners[1])
}

func TestSanitizeCleanRound(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)

	clean, diags := round.Sanitize()
	assert.Empty(t, diags)
	assert.Equal(t, round.CurrentOdds, clean.CurrentOdds)

	var nilRound *RoundData
	out, diags := nilRound.Sanitize()
	assert.Nil(t, out)
	assert.Nil(t, diags)
}

func TestSanitizeOdds(t *testing.T) {
	var odds OddsMatrix
	for a := 0; a < ArenaCount; a++ {
		odds[a] = [PiratesPerArena + 1]int{0, 2, 3, 4, 5}
	}
	odds[4][2] = 1

	out, diags := SanitizeOdds("customOdds", odds)
	require.Len(t, diags, 1)
	assert.Equal(t, "customOdds", diags[0].Field)
	assert.Equal(t, 4, diags[0].Arena)
	assert.Equal(t, 2, diags[0].Index)
	assert.Equal(t, 2, out[4][2])
	assert.Equal(t, 0, out[0][0], "slot 0 is left alone")
	assert.Contains(t, diags[0].String(), "customOdds[4][2]=1")
}

func TestSanitizeMissingOpeningOdds(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)
	round.OpeningOdds[2] = [PiratesPerArena + 1]int{}
	round.OpeningOdds[3][4] = 0

	clean, diags := round.Sanitize()
	assert.Empty(t, diags)
	assert.Equal(t, round.CurrentOdds[2], clean.OpeningOdds[2])
	assert.Equal(t, round.CurrentOdds[3][4], clean.OpeningOdds[3][4])
	assert.Zero(t, round.OpeningOdds[2][1], "the input is untouched")
}

func TestSanitizeUnpricedArena(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)
	round.CurrentOdds[4] = [PiratesPerArena + 1]int{}
	round.OpeningOdds[4] = [PiratesPerArena + 1]int{}

	clean, diags := round.Sanitize()
	require.Len(t, diags, 1)
	assert.Equal(t, "currentOdds", diags[0].Field)
	assert.Equal(t, 4, diags[0].Arena)
	assert.Contains(t, diags[0].Message, "unpriced")

	assert.False(t, clean.CurrentOdds.Priced(4))
	assert.False(t, clean.OpeningOdds.Priced(4))
	assert.Equal(t, round.CurrentOdds[0], clean.CurrentOdds[0])

	out, diags := SanitizeOdds("customOdds", clean.CurrentOdds)
	assert.Empty(t, diags)
	assert.False(t, out.Priced(4))
}
