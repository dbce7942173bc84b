package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/betsets"
	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/report"
)

const calcLong = `Price up to ten bet lines against a round and print the expected return,
the payout distributions and, for resolved rounds, the settlement.

Bet lines are five picks, one per arena, 0 for no pick: --bet 10230 or --bet 1,0,2,3,0.`

// allBetsShown is how many of the best bets `calc --all` prints
const allBetsShown = 10

func (a *app) newCalcCmd() *cobra.Command {
	var (
		rf          roundFlags
		bf          betFlags
		all         bool
		showProbs   bool
		showPayouts bool
	)

	cmd := &cobra.Command{
		Use:   "calc [round]",
		Short: "Price a bet set against a round",
		Long:  calcLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			round, err := a.loadRound(cmd.Context(), rf, args)
			if err != nil {
				return err
			}
			lines, err := parseLines(bf.lines)
			if err != nil {
				return err
			}
			settings, err := a.settings(bf)
			if err != nil {
				return err
			}
			settings.IncludeAllBets = all

			res := a.newCalculator().Calculate(round, lines, a.amounts(bf.amounts), settings)
			if res.Err != nil {
				return res.Err
			}
			if a.jsonOutput {
				return a.printJSON(res)
			}

			r := a.newReporter()
			a.print(r.Result(res, round))
			if showProbs {
				a.print(r.Probabilities(res, round))
			}
			if showPayouts && res.Totals.Bets > 0 {
				a.print(report.Payout("Total odds", res.PayoutTables.Odds))
				a.print(report.Payout("Winnings", res.PayoutTables.Winnings))
			}
			if all {
				a.print(bestBets(r, res, round, settings.BetAmount))
			}
			return nil
		},
	}

	addRoundFlags(cmd, &rf)
	addBetFlags(cmd, &bf)
	cmd.Flags().BoolVar(&all, "all", false, "Price all 3,124 bets and show the best")
	cmd.Flags().BoolVar(&showProbs, "probs", false, "Print the probability table")
	cmd.Flags().BoolVar(&showPayouts, "payout", false, "Print the payout distributions")
	return cmd
}

// bestBets renders the top of the full bet space through the bets table
func bestBets(r *report.Reporter, res calculator.Result, round *models.RoundData, betAmount int) string {
	byChoices := make(map[models.Choices]models.BetCalculation, len(res.AllBets))
	for _, b := range res.AllBets {
		byChoices[b.Choices] = b
	}

	best := calculator.Result{Round: res.Round, Bets: map[int]models.BetCalculation{}}
	for i, c := range betsets.MaxTER(res.AllBets, allBetsShown, betsets.RankingFor(betAmount)) {
		best.Bets[i+1] = byChoices[c]
	}
	return fmt.Sprintf("Best %d of %s bets\n%s", len(best.Bets), report.Count(calculator.BetCount-1), r.Bets(best, round))
}

func addRoundFlags(cmd *cobra.Command, rf *roundFlags) {
	cmd.Flags().StringVarP(&rf.file, "file", "f", "", "Read the round from a JSON file instead of the source")
	cmd.Flags().StringVar(&rf.at, "at", "", "Use the odds as they were at this RFC3339 time")
}

func addBetFlags(cmd *cobra.Command, bf *betFlags) {
	cmd.Flags().StringArrayVarP(&bf.lines, "bet", "b", nil, "Bet line, repeatable")
	cmd.Flags().IntSliceVar(&bf.amounts, "amounts", nil, "Stake of each bet line")
	cmd.Flags().StringArrayVar(&bf.customOdds, "odds", nil, "Custom odds override arena:pirate=odds, repeatable")
	cmd.Flags().StringArrayVar(&bf.customProbs, "prob", nil, "Custom probability override arena:pirate=p, repeatable")
}
