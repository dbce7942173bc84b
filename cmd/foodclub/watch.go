package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/health"
	"github.com/yourusername/foodclub/internal/metrics"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/scheduler"
)

func (a *app) newWatchCmd() *cobra.Command {
	var (
		bf       betFlags
		interval int
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate a bet set whenever the current round changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseLines(bf.lines)
			if err != nil {
				return err
			}
			settings, err := a.settings(bf)
			if err != nil {
				return err
			}
			src, err := a.newSource()
			if err != nil {
				return err
			}
			defer a.closeSource(src)
			if cmd.Flags().Changed("interval") {
				a.cfg.Watch.IntervalSeconds = interval
			}

			r := a.newReporter()
			handler := func(res calculator.Result, round *models.RoundData, changed bool) {
				if !changed || quiet || !res.Calculated {
					return
				}
				if a.jsonOutput {
					if err := a.printJSON(res); err != nil {
						a.log.WithError(err).Error("Failed to write result")
					}
				} else {
					a.print(r.Result(res, round))
				}
				a.writeMetrics()
			}

			job := scheduler.Job{Lines: lines, Amounts: a.amounts(bf.amounts), Settings: settings}
			sched := scheduler.NewScheduler(src, a.newCalculator(), job, handler, a.log)
			return a.watch(cmd.Context(), sched)
		},
	}

	addBetFlags(cmd, &bf)
	cmd.Flags().IntVar(&interval, "interval", 60, "Polling interval in seconds")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only log changes, do not print results")
	return cmd
}

// watch polls once, then on the schedule until ctx is cancelled. Health
// and metrics endpoints are served on the metrics address while it runs.
func (a *app) watch(ctx context.Context, sched *scheduler.Scheduler) error {
	var server *health.Server
	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Address != "" {
		server = health.NewServer(health.Config{
			ServiceName: a.cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Address:     a.cfg.Metrics.Address,
			Logger:      a.log,
			Checks: map[string]health.Checker{
				"poll": health.CheckFunc(sched.Check),
			},
			Metrics: metrics.Handler(),
		})
		if err := server.Start(ctx); err != nil {
			return err
		}
	}

	if _, _, err := sched.Poll(ctx); err != nil {
		a.log.WithError(err).Warn("Initial poll failed")
	}

	if err := sched.ScheduleRoundPolling(a.cfg.Watch.IntervalSeconds); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	if server != nil {
		server.SetReady(true)
	}

	a.log.WithFields(logrus.Fields{
		"interval_seconds": a.cfg.Watch.IntervalSeconds,
		"next_run":         sched.GetNextRun(),
	}).Info("Watching rounds")

	<-ctx.Done()
	a.log.Info("Shutting down watcher")

	if server != nil {
		server.SetReady(false)
	}
	return sched.Stop()
}
