// Package scheduler re-runs a calculation whenever the current round's data
// changes, polling the round source on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/logger"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/roundsource"
)

// MinIntervalSeconds is the shortest polling interval accepted
const MinIntervalSeconds = 5

// Job is the bet set recalculated on every poll
type Job struct {
	Lines    []models.Choices
	Amounts  []int
	Settings calculator.Settings
}

// Handler receives every calculation; changed is false when the round data
// is the same as on the previous poll.
type Handler func(res calculator.Result, round *models.RoundData, changed bool)

// Scheduler manages the round polling job
type Scheduler struct {
	cron            *cron.Cron
	source          roundsource.Source
	calc            *calculator.Calculator
	job             Job
	handler         Handler
	logger          logrus.FieldLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	lastRound       int
	lastFingerprint string
	lastPoll        time.Time
	lastErr         error
}

// NewScheduler creates a new scheduler
func NewScheduler(source roundsource.Source, calc *calculator.Calculator, job Job, handler Handler, log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		source:          source,
		calc:            calc,
		job:             job,
		handler:         handler,
		logger:          log.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRoundPolling polls the current round every intervalSeconds
func (s *Scheduler) ScheduleRoundPolling(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < MinIntervalSeconds {
		intervalSeconds = MinIntervalSeconds
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if _, _, err := s.Poll(ctx); err != nil {
			s.logger.WithError(err).Error("Round poll failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled round polling")

	return nil
}

// Poll fetches the current round and recalculates the job. Cached results
// of a round are dropped when its data changes or a new round opens.
func (s *Scheduler) Poll(ctx context.Context) (calculator.Result, bool, error) {
	res, changed, err := s.poll(ctx)

	s.mu.Lock()
	s.lastPoll, s.lastErr = time.Now(), err
	s.mu.Unlock()
	return res, changed, err
}

func (s *Scheduler) poll(ctx context.Context) (calculator.Result, bool, error) {
	current, err := s.source.CurrentRound(ctx)
	if err != nil {
		return calculator.Result{}, false, fmt.Errorf("current round: %w", err)
	}
	round, err := s.source.FetchRound(ctx, current)
	if err != nil {
		return calculator.Result{}, false, fmt.Errorf("fetch round %d: %w", current, err)
	}
	fingerprint := calculator.Fingerprint(round)

	s.mu.Lock()
	changed := fingerprint != s.lastFingerprint
	if changed && s.lastRound != 0 {
		s.calc.InvalidateRound(s.lastRound)
	}
	s.lastRound, s.lastFingerprint = current, fingerprint
	s.mu.Unlock()

	res := s.calc.Calculate(round, s.job.Lines, s.job.Amounts, s.job.Settings)
	if changed {
		s.logger.WithFields(logrus.Fields{
			"round":      current,
			"calculated": res.Calculated,
		}).Info("Round data changed")
	}
	if s.handler != nil {
		s.handler(res, round, changed)
	}
	return res, changed, res.Err
}

// LastPoll returns when the last poll finished and its error
func (s *Scheduler) LastPoll() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPoll, s.lastErr
}

// Check reports the error of the last poll, failing before the first one
func (s *Scheduler) Check(ctx context.Context) error {
	at, err := s.LastPoll()
	if at.IsZero() {
		return fmt.Errorf("no poll yet")
	}
	return err
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running poll to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled poll
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
