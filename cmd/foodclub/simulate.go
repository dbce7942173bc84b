package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/report"
	"github.com/yourusername/foodclub/internal/simulation"
)

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		rf         roundFlags
		bf         betFlags
		iterations int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "simulate [round]",
		Short: "Cross-check a bet set's payout distribution by Monte Carlo",
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
			if len(lines) == 0 {
				return fmt.Errorf("simulate needs at least one --bet")
			}
			settings, err := a.settings(bf)
			if err != nil {
				return err
			}

			res := a.newCalculator().Calculate(round, lines, a.amounts(bf.amounts), settings)
			if res.Err != nil {
				return res.Err
			}

			cfg := simulation.Config{Iterations: a.cfg.Simulation.Iterations, Seed: a.cfg.Simulation.Seed}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			sim, err := simulation.Run(cmd.Context(), res.ActiveBets(), res.UsedProbabilities, res.PayoutTables.Winnings, cfg)
			if err != nil {
				return err
			}

			a.log.WithFields(logrus.Fields{
				"round":      res.Round,
				"iterations": sim.Iterations,
				"deviation":  sim.Deviation(),
			}).Info("Simulation completed")

			if a.jsonOutput {
				return a.printJSON(struct {
					Round      int               `json:"round"`
					Totals     calculator.Totals `json:"totals"`
					Simulation simulation.Result `json:"simulation"`
				}{res.Round, res.Totals, sim})
			}
			r := a.newReporter()
			a.print(r.Summary(res))
			a.print(report.Simulation(sim))
			return nil
		},
	}

	addRoundFlags(cmd, &rf)
	addBetFlags(cmd, &bf)
	cmd.Flags().IntVarP(&iterations, "iterations", "i", simulation.DefaultIterations, "Simulated rounds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 picks one from the clock")
	return cmd
}
