package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/foodclub/internal/calculator"
	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/testutil"
)

// fakeSource serves whatever round it currently holds
type fakeSource struct {
	mu    sync.Mutex
	round *models.RoundData
	err   error
}

func (f *fakeSource) set(round *models.RoundData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.round = round
}

func (f *fakeSource) FetchRound(_ context.Context, n int) (*models.RoundData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.round, nil
}

func (f *fakeSource) CurrentRound(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.round.Round, nil
}

func (f *fakeSource) Name() string { return "fake" }

var testJob = Job{
	Lines:    []models.Choices{{1, 2, 0, 0, 0}, {0, 0, 1, 1, 0}},
	Settings: calculator.Settings{BetAmount: 100},
}

func TestPollRecalculatesOnChange(t *testing.T) {
	source := &fakeSource{round: testutil.SampleRound(t)}
	cache := calculator.NewMemoCache(time.Hour, 100)
	var calls []bool
	s := NewScheduler(source, calculator.New(cache, nil), testJob, func(res calculator.Result, round *models.RoundData, changed bool) {
		assert.Equal(t, round.Round, res.Round)
		calls = append(calls, changed)
	}, nil)

	res, changed, err := s.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, res.Calculated)
	assert.Len(t, res.Bets, 2)
	assert.Equal(t, 3, cache.ItemCount())

	_, changed, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	hits, _, _ := cache.Stats()
	assert.Equal(t, uint64(3), hits)

	// odds move within the same round: stale entries are dropped
	moved := testutil.SampleRound(t)
	moved.CurrentOdds[0][1] = 3
	source.set(moved)
	res, changed, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, res.UsedOdds[0][1])
	assert.Equal(t, 3, cache.ItemCount())

	// a new round opens
	next := testutil.SampleRound(t)
	next.Round = 8766
	source.set(next)
	res, changed, err = s.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 8766, res.Round)
	assert.Equal(t, 3, cache.ItemCount())

	assert.Equal(t, []bool{true, false, true, true}, calls)
}

func TestPollErrors(t *testing.T) {
	source := &fakeSource{err: errors.New("offline")}
	s := NewScheduler(source, calculator.New(nil, nil), testJob, nil, nil)

	_, _, err := s.Poll(context.Background())
	assert.ErrorContains(t, err, "offline")

	broken := testutil.SampleRound(t)
	broken.CurrentOdds = models.OddsMatrix{}
	source = &fakeSource{round: broken}
	s = NewScheduler(source, calculator.New(nil, nil), testJob, nil, nil)

	res, _, err := s.Poll(context.Background())
	assert.ErrorIs(t, err, models.ErrMalformedRound)
	assert.False(t, res.Calculated)
}

func TestCheckTracksLastPoll(t *testing.T) {
	source := &fakeSource{err: errors.New("offline")}
	s := NewScheduler(source, calculator.New(nil, nil), testJob, nil, nil)
	ctx := context.Background()

	assert.ErrorContains(t, s.Check(ctx), "no poll yet")

	_, _, _ = s.Poll(ctx)
	assert.ErrorContains(t, s.Check(ctx), "offline")

	source.mu.Lock()
	source.err = nil
	source.mu.Unlock()
	source.set(testutil.SampleRound(t))

	_, _, err := s.Poll(ctx)
	require.NoError(t, err)
	assert.NoError(t, s.Check(ctx))

	at, _ := s.LastPoll()
	assert.WithinDuration(t, time.Now(), at, time.Second)
}

func TestSchedulerLifecycle(t *testing.T) {
	source := &fakeSource{round: testutil.SampleRound(t)}
	s := NewScheduler(source, calculator.New(nil, nil), testJob, nil, nil)

	assert.Error(t, s.Start(), "no jobs scheduled")
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.ScheduleRoundPolling(1))
	require.Len(t, s.Entries(), 1)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "already running")
	assert.Error(t, s.ScheduleRoundPolling(60))

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(MinIntervalSeconds*time.Second), next, 2*time.Second)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stopping twice is a no-op")
}
