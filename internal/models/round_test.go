package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundJSON = `{
  "round": 42,
  "pirates": [[1, 2, 3, 4], [5, 6, 7, 8], [9, 10, 11, 12], [13, 14, 15, 16], [17, 18, 19, 20]],
  "openingOdds": [[1, 2, 3, 4, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13]],
  "currentOdds": [[1, 2, 3, 5, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13], [1, 2, 3, 4, 13]],
  "changes": [
    {"arena": 0, "pirate": 3, "old": 4, "new": 6, "t": "2024-03-01T10:00:00Z"},
    {"arena": 0, "pirate": 3, "old": 6, "new": 5, "t": "2024-03-01T12:00:00Z"}
  ]
}`

func TestParseRound(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)

	assert.Equal(t, 42, round.Round)
	assert.Equal(t, 7, round.PirateID(1, 3))
	assert.Equal(t, 5, round.CurrentOdds[0][3])
	assert.Nil(t, round.Foods)
	assert.Nil(t, round.Winners)
	assert.False(t, round.HasFoods())
	assert.False(t, round.IsResolved())
	assert.NoError(t, round.Validate())
}

func TestParseRoundRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"short pirates row", "[1, 2, 3, 4], [5, 6, 7, 8]", "[1, 2, 3], [5, 6, 7, 8]"},
		{"odds row too long", `"currentOdds": [[1, 2, 3, 5, 13]`, `"currentOdds": [[1, 2, 3, 5, 13, 2]`},
		{"missing arena", `"openingOdds": [[1, 2, 3, 4, 13], `, `"openingOdds": [`},
		{"not json", `"round": 42`, `"round": forty-two`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(roundJSON, tt.from, tt.to, 1)
			require.NotEqual(t, roundJSON, doc)
			_, err := ParseRound([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformedRound)
		})
	}
}

func TestParseRoundOptionalFields(t *testing.T) {
	doc := strings.Replace(roundJSON, `"round": 42,`, `"round": 42,
  "winners": [1, 2, 3, 4, 1],
  "foods": [[1,2,3,4,5,6,7,8,9,10],[1,2,3,4,5,6,7,8,9,10],[1,2,3,4,5,6,7,8,9,10],[1,2,3,4,5,6,7,8,9,10],[1,2,3,4,5,6,7,8,9,10]],`, 1)

	round, err := ParseRound([]byte(doc))
	require.NoError(t, err)
	assert.True(t, round.HasFoods())
	assert.True(t, round.IsResolved())
	assert.Equal(t, 10, round.Foods[4][9])

	_, err = ParseRound([]byte(strings.Replace(doc, "[1, 2, 3, 4, 1]", "[1, 2]", 1)))
	assert.ErrorIs(t, err, ErrMalformedRound)
}

func TestValidate(t *testing.T) {
	var nilRound *RoundData
	assert.ErrorIs(t, nilRound.Validate(), ErrNilRound)

	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)
	round.CurrentOdds[3] = [PiratesPerArena + 1]int{}
	assert.NoError(t, round.Validate(), "one unpriced arena is left to Sanitize")

	round.CurrentOdds = OddsMatrix{}
	assert.ErrorIs(t, round.Validate(), ErrMalformedRound)
}

func TestIsResolvedNeedsEveryArena(t *testing.T) {
	round := &RoundData{Winners: &[ArenaCount]int{1, 2, 0, 4, 1}}
	assert.False(t, round.IsResolved())

	round.Winners[2] = 3
	assert.True(t, round.IsResolved())
}

func TestOddsTimeline(t *testing.T) {
	round, err := ParseRound([]byte(roundJSON))
	require.NoError(t, err)

	before := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	middle := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	after := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, round.OddsAt(before)[0][3])
	assert.Equal(t, 6, round.OddsAt(middle)[0][3])
	assert.Equal(t, 5, round.OddsAt(after)[0][3])
	assert.Equal(t, 4, round.OpeningOdds[0][3], "opening odds are not modified")

	assert.Len(t, round.ChangesFor(0, 3), 2)
	assert.Empty(t, round.ChangesFor(1, 3))
}

func TestChoices(t *testing.T) {
	c := Choices{1, 0, 3, 0, 4}
	assert.False(t, c.IsEmpty())
	assert.True(t, Choices{}.IsEmpty())
	assert.Equal(t, 3, c.Picks())
	assert.NoError(t, c.Validate())
	assert.ErrorIs(t, Choices{5, 0, 0, 0, 0}.Validate(), ErrInvalidChoice)
	assert.ErrorIs(t, Choices{0, -1, 0, 0, 0}.Validate(), ErrInvalidChoice)

	assert.True(t, c.Contains(Choices{1, 0, 0, 0, 4}))
	assert.False(t, c.Contains(Choices{1, 2, 0, 0, 0}))
}

func TestImpliedProbability(t *testing.T) {
	assert.Equal(t, 0.5, ImpliedProbability(2))
	assert.Equal(t, 0.0, ImpliedProbability(0))

	var odds OddsMatrix
	odds[1] = [PiratesPerArena + 1]int{0, 2, 4, 4, 0}
	assert.InDelta(t, 1.0, odds.ImpliedTotal(1), 1e-12)
	assert.Equal(t, 4, odds.Get(Slot{Arena: 1, Pirate: 3}))
	assert.Equal(t, 0, odds.Get(Slot{Arena: 1, Pirate: 0}))
}

func TestPayoutTableHelpers(t *testing.T) {
	table := PayoutTable{Entries: []PayoutEntry{
		{Value: 0, Probability: 0.5, Cumulative: 0.5, Tail: 1},
		{Value: 6, Probability: 0.3, Cumulative: 0.8, Tail: 0.5},
		{Value: 20, Probability: 0.2, Cumulative: 1, Tail: 0.2},
	}}

	assert.Equal(t, 20, table.Max())
	assert.Equal(t, 0.5, table.ProbabilityAtLeast(1))
	assert.Equal(t, 0.2, table.ProbabilityAtLeast(20))
	assert.Equal(t, 0.0, table.ProbabilityAtLeast(21))
	assert.Equal(t, 0, PayoutTable{}.Max())
}
