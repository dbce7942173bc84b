package roundsource

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/foodclub/internal/logger"
	"github.com/yourusername/foodclub/internal/metrics"
	"github.com/yourusername/foodclub/internal/models"
)

// FileSourceName identifies the directory source in errors, logs and metrics
const FileSourceName = "file"

// FileSource reads rounds from {dir}/rounds/{n}.json and the current round
// from {dir}/current_round.txt, falling back to the highest round on disk.
type FileSource struct {
	dir string
	log *logger.SourceLogger
}

// NewFileSource creates a source reading from dir
func NewFileSource(dir string, log logrus.FieldLogger) *FileSource {
	return &FileSource{dir: dir, log: logger.NewSourceLogger(log, FileSourceName)}
}

// Name returns the name of the source
func (s *FileSource) Name() string {
	return FileSourceName
}

// FetchRound reads one round file
func (s *FileSource) FetchRound(ctx context.Context, round int) (*models.RoundData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := LoadFile(filepath.Join(s.dir, "rounds", strconv.Itoa(round)+".json"))
	if err != nil {
		metrics.RecordRoundFetch(FileSourceName, "failure", time.Since(start).Seconds())
		s.log.LogFetchError(round, err)
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.RecordRoundFetch(FileSourceName, "success", elapsed.Seconds())
	s.log.LogFetch(round, false, float64(elapsed.Microseconds())/1000)
	return data, nil
}

// CurrentRound reads current_round.txt, or picks the highest round file
func (s *FileSource) CurrentRound(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if body, err := os.ReadFile(filepath.Join(s.dir, "current_round.txt")); err == nil {
		round, convErr := strconv.Atoi(strings.TrimSpace(string(body)))
		if convErr != nil || round <= 0 {
			return 0, NewSourceError(FileSourceName, ErrCodeInvalidData, "bad current round", convErr)
		}
		s.log.LogCurrentRound(round, false)
		return round, nil
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, "rounds"))
	if err != nil {
		return 0, NewSourceError(FileSourceName, ErrCodeNotFound, "no rounds directory", err)
	}
	latest := 0
	for _, e := range entries {
		n, convErr := strconv.Atoi(strings.TrimSuffix(e.Name(), ".json"))
		if convErr == nil && !e.IsDir() && strings.HasSuffix(e.Name(), ".json") && n > latest {
			latest = n
		}
	}
	if latest == 0 {
		return 0, NewSourceError(FileSourceName, ErrCodeNotFound, "no round files", nil)
	}
	s.log.LogCurrentRound(latest, false)
	return latest, nil
}

// LoadFile reads and parses a single round document
func LoadFile(path string) (*models.RoundData, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewSourceError(FileSourceName, ErrCodeNotFound, path, err)
		}
		return nil, NewSourceError(FileSourceName, ErrCodeUnknown, path, err)
	}
	data, err := models.ParseRound(body)
	if err != nil {
		return nil, NewSourceError(FileSourceName, ErrCodeInvalidData, path, err)
	}
	return data, nil
}
