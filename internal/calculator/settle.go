package calculator

import (
	"sort"

	"github.com/yourusername/foodclub/internal/betcode"
	"github.com/yourusername/foodclub/internal/models"
)

// Settlement is the realised result of the active bets on a resolved round
type Settlement struct {
	WinningBinary int   `json:"winningBinary"`
	Hits          []int `json:"hits"`
	Odds          int   `json:"odds"`
	Winnings      int   `json:"winnings"`
	Spent         int   `json:"spent"`
	Profit        int   `json:"profit"`
}

// WinningBinary returns the binary of a resolved round's winners, 0 while
// any arena is unresolved.
func WinningBinary(round *models.RoundData) int {
	if !round.IsResolved() {
		return 0
	}
	return betcode.Encode(models.Choices(*round.Winners))
}

// Settle resolves keyed bets against the winners' binary. Hits lists the
// winning keys in ascending order.
func Settle(bets map[int]models.BetCalculation, winningBinary int) Settlement {
	s := Settlement{WinningBinary: winningBinary}
	for key, b := range bets {
		if b.IsEmpty() {
			continue
		}
		s.Spent += b.Amount
		if betcode.Hits(b.Binary, winningBinary) {
			s.Hits = append(s.Hits, key)
			s.Odds += b.Odds
			s.Winnings += b.Payoff
		}
	}
	sort.Ints(s.Hits)
	s.Profit = s.Winnings - s.Spent
	return s
}
