package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
	"github.com/yourusername/foodclub/internal/report"
	"github.com/yourusername/foodclub/internal/roundsource"
)

// maxCircuitFailures and circuitCooldown tune the round source breaker
const (
	maxCircuitFailures = 5
	circuitCooldown    = 30 * time.Second
)

// roundFlags selects which round a command works on
type roundFlags struct {
	file string
	at   string
}

// betFlags describes the bet set and overrides of a calculation
type betFlags struct {
	lines       []string
	amounts     []int
	customOdds  []string
	customProbs []string
}

func (a *app) newSource() (roundsource.Source, error) {
	client := roundsource.NewRateLimitedHTTPClient(roundsource.HTTPClientConfig{
		Timeout:           a.cfg.SourceTimeout(),
		MaxRetries:        a.cfg.Source.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         a.cfg.Source.RateLimit,
		CircuitBreakerMax: maxCircuitFailures,
		CircuitCooldown:   circuitCooldown,
	}, a.log)

	return roundsource.New(a.cfg.Source.BaseURL, client, a.log,
		roundsource.WithCacheTTLs(a.cfg.RoundCacheTTL(), a.cfg.CurrentRoundCacheTTL()))
}

func (a *app) newCalculator() *calculator.Calculator {
	cache := calculator.NewMemoCache(a.cfg.CacheTTL(), a.cfg.Calculator.CacheMaxSize)
	return calculator.New(cache, a.log)
}

func (a *app) newReporter() *report.Reporter {
	return report.New(pirates.Default())
}

// loadRound reads a round file when one is given, otherwise fetches the
// numbered round (or the current one for 0) from the configured source.
// With --at the current odds are replaced by the odds at that time.
func (a *app) loadRound(ctx context.Context, rf roundFlags, args []string) (*models.RoundData, error) {
	var (
		round *models.RoundData
		err   error
	)
	if rf.file != "" {
		round, err = roundsource.LoadFile(rf.file)
	} else {
		round, err = a.fetchRound(ctx, args)
	}
	if err != nil {
		return nil, err
	}

	if rf.at != "" {
		t, err := time.Parse(time.RFC3339, rf.at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at time %q: %w", rf.at, err)
		}
		round.CurrentOdds = round.OddsAt(t)
	}
	return round, nil
}

func (a *app) fetchRound(ctx context.Context, args []string) (*models.RoundData, error) {
	src, err := a.newSource()
	if err != nil {
		return nil, err
	}
	defer a.closeSource(src)

	number := 0
	if len(args) > 0 {
		number, err = strconv.Atoi(args[0])
		if err != nil || number <= 0 {
			return nil, fmt.Errorf("invalid round number %q", args[0])
		}
	}
	if number == 0 {
		number, err = src.CurrentRound(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get current round: %w", err)
		}
	}
	return src.FetchRound(ctx, number)
}

// closeSource releases the HTTP client behind sources that hold one
func (a *app) closeSource(src roundsource.Source) {
	c, ok := src.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close round source")
	}
}

// settings builds calculation settings from config and the override flags
func (a *app) settings(bf betFlags) (calculator.Settings, error) {
	s := calculator.Settings{
		UseLogitModel: a.cfg.UseLogitModel(),
		BetAmount:     a.cfg.Calculator.BetAmount,
	}

	if len(bf.customOdds) > 0 {
		var odds models.OddsMatrix
		for _, raw := range bf.customOdds {
			slot, value, err := parseOverride(raw)
			if err != nil {
				return s, fmt.Errorf("invalid custom odds: %w", err)
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return s, fmt.Errorf("invalid custom odds %q: %w", raw, err)
			}
			odds[slot.Arena][slot.Pirate] = n
		}
		s.CustomOdds = &odds
	}

	if len(bf.customProbs) > 0 {
		s.CustomProbabilities = make(map[models.Slot]float64, len(bf.customProbs))
		for _, raw := range bf.customProbs {
			slot, value, err := parseOverride(raw)
			if err != nil {
				return s, fmt.Errorf("invalid custom probability: %w", err)
			}
			p, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return s, fmt.Errorf("invalid custom probability %q: %w", raw, err)
			}
			s.CustomProbabilities[slot] = p
		}
	}
	return s, nil
}

// amounts caps explicit stakes at the configured max bet
func (a *app) amounts(raw []int) []int {
	limit := a.cfg.Calculator.MaxBet
	out := make([]int, len(raw))
	for i, v := range raw {
		if limit > 0 && v > limit {
			a.log.WithFields(logrus.Fields{
				"line":    i + 1,
				"amount":  v,
				"max_bet": limit,
			}).Warn("Bet amount above max bet, capping")
			v = limit
		}
		out[i] = v
	}
	return out
}

// parseLine reads a bet line as five digits ("10230") or five
// comma-separated picks ("1,0,2,3,0"); 0 means no pick in that arena.
func parseLine(s string) (models.Choices, error) {
	var c models.Choices
	s = strings.TrimSpace(s)

	var parts []string
	if strings.Contains(s, ",") {
		parts = strings.Split(s, ",")
	} else {
		parts = strings.Split(s, "")
	}
	if len(parts) != models.ArenaCount {
		return c, fmt.Errorf("bet %q: want %d picks, got %d", s, models.ArenaCount, len(parts))
	}

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return c, fmt.Errorf("bet %q: %w", s, err)
		}
		c[i] = n
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("bet %q: %w", s, err)
	}
	return c, nil
}

func parseLines(raw []string) ([]models.Choices, error) {
	out := make([]models.Choices, 0, len(raw))
	for _, s := range raw {
		c, err := parseLine(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// parseOverride reads "arena:pirate=value" with 1-based arenas and pirates
func parseOverride(s string) (models.Slot, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return models.Slot{}, "", fmt.Errorf("%q: want arena:pirate=value", s)
	}
	arenaStr, pirateStr, ok := strings.Cut(key, ":")
	if !ok {
		return models.Slot{}, "", fmt.Errorf("%q: want arena:pirate=value", s)
	}
	arena, err := strconv.Atoi(strings.TrimSpace(arenaStr))
	if err != nil {
		return models.Slot{}, "", fmt.Errorf("%q: %w", s, err)
	}
	pirate, err := strconv.Atoi(strings.TrimSpace(pirateStr))
	if err != nil {
		return models.Slot{}, "", fmt.Errorf("%q: %w", s, err)
	}

	slot := models.Slot{Arena: arena - 1, Pirate: pirate}
	if !slot.Valid() {
		return models.Slot{}, "", fmt.Errorf("%q: arena must be 1-%d and pirate 1-%d", s, models.ArenaCount, models.PiratesPerArena)
	}
	return slot, strings.TrimSpace(value), nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) print(s string) {
	fmt.Fprint(a.out, s)
}
