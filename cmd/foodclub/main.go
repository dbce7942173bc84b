// Package main provides the foodclub command line calculator.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/foodclub/internal/config"
	"github.com/yourusername/foodclub/internal/logger"
	"github.com/yourusername/foodclub/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the state shared by every subcommand
type app struct {
	configFile string
	baseURL    string
	model      string
	betAmount  int
	jsonOutput bool
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
	out io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "foodclub",
		Short:         "Food Club odds, probability and payout calculator",
		Long:          `Estimate pirate win probabilities, price bets and build payout distributions for Food Club rounds.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.setup(errOut)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.writeMetrics()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	flags.StringVar(&a.baseURL, "source", "", "Round source: http(s) base URL or data directory")
	flags.StringVar(&a.model, "model", "", "Probability model: legacy or logit")
	flags.IntVar(&a.betAmount, "amount", 0, "Default bet amount, 0 bets each line at its max bet")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print results as JSON")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level override")

	rootCmd.AddCommand(
		a.newCalcCmd(),
		a.newBetsCmd(),
		a.newSimulateCmd(),
		a.newWatchCmd(),
		a.newRoundCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist, then applies flag overrides and validates the result.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadWithDefaults(a.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.BaseURL = a.baseURL
	}
	if flags.Changed("model") {
		cfg.Calculator.Model = a.model
	}
	if flags.Changed("amount") {
		cfg.Calculator.BetAmount = a.betAmount
	}
	if flags.Changed("log-level") {
		cfg.App.LogLevel = a.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) setup(errOut io.Writer) {
	a.log = logger.NewLoggerWithOutput(a.cfg.App.LogLevel, a.cfg.App.Environment, errOut)
	metrics.InitRegistry()

	a.log.WithFields(logrus.Fields{
		"environment": a.cfg.App.Environment,
		"model":       a.cfg.Calculator.Model,
		"source":      a.cfg.Source.BaseURL,
	}).Debug("Configuration loaded")
}

// writeMetrics exports the registry for the node-exporter textfile collector
func (a *app) writeMetrics() {
	if !a.cfg.Metrics.Enabled || a.cfg.Metrics.TextfilePath == "" {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		a.log.WithError(err).Warn("Failed to write metrics textfile")
	}
}
