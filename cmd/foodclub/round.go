package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
	"github.com/yourusername/foodclub/internal/report"
)

func (a *app) newRoundCmd() *cobra.Command {
	var (
		rf          roundFlags
		showChanges bool
	)

	cmd := &cobra.Command{
		Use:   "round [round]",
		Short: "Show a round's pirates, odds and model probabilities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			round, err := a.loadRound(cmd.Context(), rf, args)
			if err != nil {
				return err
			}
			settings, err := a.settings(betFlags{})
			if err != nil {
				return err
			}

			res := a.newCalculator().Calculate(round, nil, nil, settings)
			if res.Err != nil {
				return res.Err
			}
			if a.jsonOutput {
				return a.printJSON(round)
			}

			r := a.newReporter()
			a.print(r.Probabilities(res, round))
			if showChanges {
				a.print(oddsChanges(pirates.Default(), round))
			}
			if len(res.Diagnostics) > 0 {
				a.print(report.Diagnostics(res.Diagnostics))
			}
			return nil
		},
	}

	addRoundFlags(cmd, &rf)
	cmd.Flags().BoolVar(&showChanges, "changes", false, "List the round's odds changes")
	return cmd
}

// oddsChanges renders the odds timeline of a round
func oddsChanges(tables *pirates.Tables, round *models.RoundData) string {
	t := report.Table{
		Title:   "Odds changes",
		Headers: []string{"Time", "Arena", "Pirate", "Old", "New"},
		Right:   map[int]bool{3: true, 4: true},
	}
	for _, c := range round.Changes {
		t.AddRow(
			c.T.UTC().Format("15:04:05"),
			tables.ArenaName(c.Arena),
			tables.PirateName(round.PirateID(c.Arena, c.Pirate)),
			strconv.Itoa(c.Old),
			strconv.Itoa(c.New),
		)
	}
	return t.Render()
}
