package roundsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/logger"
	"github.com/yourusername/foodclub/internal/metrics"
	"github.com/yourusername/foodclub/internal/models"
)

// HTTPSourceName identifies the HTTP source in errors, logs and metrics
const HTTPSourceName = "http"

const (
	// DefaultRoundTTL is how long a fetched round is reused
	DefaultRoundTTL = 10 * time.Second
	// DefaultCurrentRoundTTL is how long the current round number is reused
	DefaultCurrentRoundTTL = 5 * time.Second

	currentRoundKey = "current"
	maxBodyBytes    = 1 << 20
)

// HTTPSource fetches rounds from {base}/rounds/{n}.json and the current
// round number from {base}/current_round.txt, caching both briefly.
type HTTPSource struct {
	baseURL    string
	client     *RateLimitedHTTPClient
	cache      *gocache.Cache
	roundTTL   time.Duration
	currentTTL time.Duration
	log        *logger.SourceLogger
}

// HTTPSourceOption configures an HTTPSource
type HTTPSourceOption func(*HTTPSource)

// WithCacheTTLs overrides the round and current round cache lifetimes.
// A zero TTL disables caching of that value.
func WithCacheTTLs(round, current time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.roundTTL = round
		s.currentTTL = current
	}
}

// NewHTTPSource creates a source reading from baseURL
func NewHTTPSource(baseURL string, client *RateLimitedHTTPClient, log logrus.FieldLogger, opts ...HTTPSourceOption) *HTTPSource {
	if client == nil {
		client = NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), log)
	}
	s := &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
		roundTTL:   DefaultRoundTTL,
		currentTTL: DefaultCurrentRoundTTL,
		log:        logger.NewSourceLogger(log, HTTPSourceName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = gocache.New(gocache.NoExpiration, time.Minute)
	return s
}

// Name returns the name of the source
func (s *HTTPSource) Name() string {
	return HTTPSourceName
}

// FetchRound retrieves one round. The returned data is shared with the
// cache and must not be modified.
func (s *HTTPSource) FetchRound(ctx context.Context, round int) (*models.RoundData, error) {
	start := time.Now()
	key := "round/" + strconv.Itoa(round)
	if v, ok := s.cache.Get(key); ok {
		metrics.RecordRoundFetch(HTTPSourceName, "cached", 0)
		s.log.LogFetch(round, true, 0)
		return v.(*models.RoundData), nil
	}

	body, err := s.get(ctx, fmt.Sprintf("%s/rounds/%d.json", s.baseURL, round), roundMessage(round))
	if err != nil {
		s.fail(round, start, err)
		return nil, err
	}

	data, err := models.ParseRound(body)
	if err != nil {
		err = NewSourceError(HTTPSourceName, ErrCodeInvalidData, roundMessage(round), err)
		s.fail(round, start, err)
		return nil, err
	}
	if data.Round != 0 && data.Round != round {
		err = NewSourceError(HTTPSourceName, ErrCodeInvalidData, fmt.Sprintf("asked for round %d, got %d", round, data.Round), nil)
		s.fail(round, start, err)
		return nil, err
	}

	if s.roundTTL > 0 {
		s.cache.Set(key, data, s.roundTTL)
	}
	elapsed := time.Since(start)
	metrics.RecordRoundFetch(HTTPSourceName, "success", elapsed.Seconds())
	s.log.LogFetch(round, false, float64(elapsed.Microseconds())/1000)
	return data, nil
}

// CurrentRound returns the round currently open
func (s *HTTPSource) CurrentRound(ctx context.Context) (int, error) {
	if v, ok := s.cache.Get(currentRoundKey); ok {
		s.log.LogCurrentRound(v.(int), true)
		return v.(int), nil
	}

	body, err := s.get(ctx, s.baseURL+"/current_round.txt", "current round")
	if err != nil {
		s.log.LogFetchError(0, err)
		return 0, err
	}

	round, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil || round <= 0 {
		err = NewSourceError(HTTPSourceName, ErrCodeInvalidData, fmt.Sprintf("bad current round %q", strings.TrimSpace(string(body))), err)
		s.log.LogFetchError(0, err)
		return 0, err
	}

	if s.currentTTL > 0 {
		s.cache.Set(currentRoundKey, round, s.currentTTL)
	}
	s.log.LogCurrentRound(round, false)
	return round, nil
}

// Forget drops a cached round so the next fetch hits the host
func (s *HTTPSource) Forget(round int) {
	s.cache.Delete("round/" + strconv.Itoa(round))
	s.cache.Delete(currentRoundKey)
}

// Close releases the underlying HTTP client
func (s *HTTPSource) Close() error {
	return s.client.Close()
}

func (s *HTTPSource) get(ctx context.Context, url, what string) ([]byte, error) {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, NewSourceError(HTTPSourceName, ErrCodeNetworkError, what, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(HTTPSourceName, ErrCodeNotFound, what, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(HTTPSourceName, ErrCodeRateLimitExceeded, what, nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, NewSourceError(HTTPSourceName, ErrCodeServerError, what+": "+resp.Status, nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(HTTPSourceName, ErrCodeUnknown, what+": "+resp.Status, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewSourceError(HTTPSourceName, ErrCodeNetworkError, what, err)
	}
	return body, nil
}

func (s *HTTPSource) fail(round int, start time.Time, err error) {
	metrics.RecordRoundFetch(HTTPSourceName, "failure", time.Since(start).Seconds())
	s.log.LogFetchError(round, err)
}
