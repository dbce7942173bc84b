// Package betsets generates bet lines from priced bets: the best expected
// ratio, subsets of a five-pirate bet, bets built around chosen pirates and
// random sets. Every generator returns choices in the form the calculator
// accepts.
package betsets

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
)

// MaxLines is the largest bet set a player may submit in one round
const MaxLines = 10

var (
	// ErrNotFiveBet is returned when Gambit gets a bet missing an arena
	ErrNotFiveBet = errors.New("gambit needs a pick in every arena")
	// ErrNoPirates is returned when Tenbet gets no picks
	ErrNoPirates = errors.New("tenbet needs at least one pirate")
	// ErrTooManyPirates is returned when Tenbet leaves no room to vary
	ErrTooManyPirates = errors.New("tenbet allows at most three pirates")
)

// Ranking orders bets from best to worst
type Ranking func(a, b models.BetCalculation) bool

// ByExpectedRatio ranks by expected ratio, highest first
func ByExpectedRatio(a, b models.BetCalculation) bool {
	if a.ExpectedRatio != b.ExpectedRatio {
		return a.ExpectedRatio > b.ExpectedRatio
	}
	return a.Binary > b.Binary
}

// ByNetExpected ranks by net expected winnings, highest first
func ByNetExpected(a, b models.BetCalculation) bool {
	if a.NetExpected != b.NetExpected {
		return a.NetExpected > b.NetExpected
	}
	return a.Binary > b.Binary
}

// RankingFor picks net expected when a bet amount is set and expected
// ratio otherwise.
func RankingFor(betAmount int) Ranking {
	if betAmount > 0 {
		return ByNetExpected
	}
	return ByExpectedRatio
}

// top filters bets, sorts them with rank and returns up to n choices
func top(bets []models.BetCalculation, n int, rank Ranking, keep func(models.BetCalculation) bool) []models.Choices {
	if n <= 0 {
		return nil
	}
	candidates := make([]models.BetCalculation, 0, len(bets))
	for _, b := range bets {
		if b.IsEmpty() || !keep(b) {
			continue
		}
		candidates = append(candidates, b)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rank(candidates[i], candidates[j])
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]models.Choices, len(candidates))
	for i, b := range candidates {
		out[i] = b.Choices
	}
	return out
}

// MaxTER returns the n best bets of a priced bet space
func MaxTER(bets []models.BetCalculation, n int, rank Ranking) []models.Choices {
	return top(bets, n, rank, func(models.BetCalculation) bool { return true })
}

// Gambit returns the n best sub-bets of a bet with a pick in every arena,
// ranked by probability-weighted odds.
func Gambit(bets []models.BetCalculation, fiveBet models.Choices, n int) ([]models.Choices, error) {
	if err := fiveBet.Validate(); err != nil {
		return nil, err
	}
	if fiveBet.Picks() != models.ArenaCount {
		return nil, ErrNotFiveBet
	}
	return top(bets, n, ByExpectedRatio, func(b models.BetCalculation) bool {
		return fiveBet.Contains(b.Choices)
	}), nil
}

// Tenbet returns the n best bets that include every pick of pirates
func Tenbet(bets []models.BetCalculation, pirates models.Choices, n int, rank Ranking) ([]models.Choices, error) {
	if err := pirates.Validate(); err != nil {
		return nil, err
	}
	switch picks := pirates.Picks(); {
	case picks == 0:
		return nil, ErrNoPirates
	case picks > 3:
		return nil, fmt.Errorf("%w: got %d", ErrTooManyPirates, picks)
	}
	return top(bets, n, rank, func(b models.BetCalculation) bool {
		return b.Choices.Contains(pirates)
	}), nil
}

// Random returns n distinct non-empty bets. A seed of 0 is used as is, so
// equal seeds always give equal sets.
func Random(n int, seed int64) []models.Choices {
	if n <= 0 {
		return nil
	}
	if n > calculator.BetCount-1 {
		n = calculator.BetCount - 1
	}
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[models.Choices]bool, n)
	out := make([]models.Choices, 0, n)
	for len(out) < n {
		c := calculator.ChoicesAt(1 + rng.Intn(calculator.BetCount-1))
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Winning returns the winners of a resolved round as a single bet line, nil
// while the round is unresolved.
func Winning(round *models.RoundData) []models.Choices {
	if !round.IsResolved() {
		return nil
	}
	return []models.Choices{models.Choices(*round.Winners)}
}
