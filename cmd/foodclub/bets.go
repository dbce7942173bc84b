package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/betsets"
	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
)

// Bet set strategies accepted by `bets`
const (
	strategyMaxTER  = "maxter"
	strategyGambit  = "gambit"
	strategyTenbet  = "tenbet"
	strategyRandom  = "random"
	strategyWinning = "winning"
)

var strategies = []string{strategyMaxTER, strategyGambit, strategyTenbet, strategyRandom, strategyWinning}

func (a *app) newBetsCmd() *cobra.Command {
	var (
		rf      roundFlags
		bf      betFlags
		count   int
		pirates string
		seed    int64
	)

	cmd := &cobra.Command{
		Use:       fmt.Sprintf("bets {%s} [round]", strings.Join(strategies, "|")),
		Short:     "Generate a bet set and price it",
		ValidArgs: strategies,
		Args:      cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(strategies, args[0]) {
				return fmt.Errorf("unknown strategy %q, want one of %s", args[0], strings.Join(strategies, ", "))
			}
			round, err := a.loadRound(cmd.Context(), rf, args[1:])
			if err != nil {
				return err
			}
			settings, err := a.settings(bf)
			if err != nil {
				return err
			}

			calc := a.newCalculator()
			space := settings
			space.IncludeAllBets = true
			priced := calc.Calculate(round, nil, nil, space)
			if priced.Err != nil {
				return priced.Err
			}

			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Simulation.Seed
			}
			lines, err := generate(args[0], priced, round, count, pirates, seed, settings.BetAmount)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return fmt.Errorf("%s produced no bets for round %d", args[0], round.Round)
			}

			res := calc.Calculate(round, lines, nil, settings)
			if res.Err != nil {
				return res.Err
			}
			if a.jsonOutput {
				return a.printJSON(res)
			}
			a.print(a.newReporter().Result(res, round))
			return nil
		},
	}

	addRoundFlags(cmd, &rf)
	cmd.Flags().StringArrayVar(&bf.customOdds, "odds", nil, "Custom odds override arena:pirate=odds, repeatable")
	cmd.Flags().StringArrayVar(&bf.customProbs, "prob", nil, "Custom probability override arena:pirate=p, repeatable")
	cmd.Flags().IntVarP(&count, "count", "n", betsets.MaxLines, "Number of bets to generate")
	cmd.Flags().StringVarP(&pirates, "pirates", "p", "", "Picks for gambit (all five arenas) or tenbet (one to three arenas)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for random bets, defaults to simulation.seed")
	return cmd
}

// generate runs one bet set strategy over a calculation that includes the
// full bet space.
func generate(strategy string, priced calculator.Result, round *models.RoundData, n int, pirates string, seed int64, betAmount int) ([]models.Choices, error) {
	if n > betsets.MaxLines {
		n = betsets.MaxLines
	}
	rank := betsets.RankingFor(betAmount)

	switch strategy {
	case strategyMaxTER:
		return betsets.MaxTER(priced.AllBets, n, rank), nil
	case strategyGambit:
		five := favourites(priced.UsedProbabilities)
		if pirates != "" {
			var err error
			if five, err = parseLine(pirates); err != nil {
				return nil, err
			}
		}
		return betsets.Gambit(priced.AllBets, five, n)
	case strategyTenbet:
		picks, err := parseLine(pirates)
		if err != nil {
			return nil, fmt.Errorf("tenbet needs --pirates: %w", err)
		}
		return betsets.Tenbet(priced.AllBets, picks, n, rank)
	case strategyRandom:
		return betsets.Random(n, seed), nil
	case strategyWinning:
		lines := betsets.Winning(round)
		if lines == nil {
			return nil, fmt.Errorf("round %d has no winners yet", round.Round)
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q, want one of %s", strategy, strings.Join(strategies, ", "))
	}
}

// favourites picks the most likely pirate of every arena
func favourites(probs models.ProbabilityMatrix) models.Choices {
	var c models.Choices
	for arena := range probs {
		best := 0.0
		for p := 1; p <= models.PiratesPerArena; p++ {
			if probs[arena][p] > best {
				best, c[arena] = probs[arena][p], p
			}
		}
	}
	return c
}
