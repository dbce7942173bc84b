package calculator

import (
	"github.com/yourusername/foodclub/internal/betcode"
	"github.com/yourusername/foodclub/internal/models"
)

// choicesPerArena counts the no-pick option plus four pirates
const choicesPerArena = models.PiratesPerArena + 1

// BetCount is the size of the full bet space, the empty bet included
const BetCount = choicesPerArena * choicesPerArena * choicesPerArena * choicesPerArena * choicesPerArena

// MaxBet returns the largest stake whose payoff stays within the cap
func MaxBet(odds int) int {
	if odds <= 0 {
		return models.NoMaxBet
	}
	return models.MaxPayout / odds
}

// Payoff returns amount * odds capped at the maximum payout
func Payoff(amount, odds int) int {
	if amount <= 0 || odds <= 0 {
		return 0
	}
	if amount > models.MaxPayout/odds {
		return models.MaxPayout
	}
	return min(amount*odds, models.MaxPayout)
}

// Stake resolves a requested amount; zero or negative stakes the max bet.
func Stake(amount, odds int) int {
	if amount > 0 {
		return amount
	}
	if mb := MaxBet(odds); mb > 0 {
		return mb
	}
	return 0
}

// PriceBet prices one bet line against the used odds and probabilities.
// Unpicked arenas contribute a factor of one; the empty bet is left
// unpriced with NoMaxBet.
func PriceBet(choices models.Choices, odds models.OddsMatrix, probs models.ProbabilityMatrix, amount int) models.BetCalculation {
	bet := models.BetCalculation{
		Binary:  betcode.Encode(choices),
		Choices: choices,
		MaxBet:  models.NoMaxBet,
	}
	if bet.Binary == 0 {
		return bet
	}

	bet.Odds = 1
	bet.Probability = 1
	for arena, pirate := range choices {
		slot := models.Slot{Arena: arena, Pirate: pirate}
		if !slot.Valid() {
			continue
		}
		bet.Odds *= odds.Get(slot)
		bet.Probability *= probs.Get(slot)
	}

	bet.MaxBet = MaxBet(bet.Odds)
	bet.Amount = Stake(amount, bet.Odds)
	bet.Payoff = Payoff(bet.Amount, bet.Odds)
	bet.ExpectedRatio = float64(bet.Odds) * bet.Probability
	bet.NetExpected = float64(bet.Payoff)*bet.Probability - float64(bet.Amount)
	return bet
}

// ChoicesAt returns the bet line at position i of the enumeration order,
// arena 0 varying slowest.
func ChoicesAt(i int) models.Choices {
	var c models.Choices
	for arena := models.ArenaCount - 1; arena >= 0; arena-- {
		c[arena] = i % choicesPerArena
		i /= choicesPerArena
	}
	return c
}

// ComputeAllBets prices every one of the BetCount bet lines. Index 0 is the
// empty bet. A non-positive amount stakes each bet at its max bet.
func ComputeAllBets(odds models.OddsMatrix, probs models.ProbabilityMatrix, amount int) []models.BetCalculation {
	bets := make([]models.BetCalculation, BetCount)
	for i := range bets {
		bets[i] = PriceBet(ChoicesAt(i), odds, probs, amount)
	}
	return bets
}
