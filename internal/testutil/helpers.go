// Package testutil holds round fixtures and fake servers shared by tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
)

// SampleRoundJSON is a complete, unresolved round document.
const SampleRoundJSON = `{
  "round": 8765,
  "pirates": [[2, 8, 14, 11], [20, 7, 6, 10], [1, 13, 4, 3], [16, 19, 12, 17], [15, 5, 18, 9]],
  "openingOdds": [[1, 2, 13, 3, 5], [1, 12, 2, 4, 9], [1, 3, 4, 5, 4], [1, 2, 6, 13, 4], [1, 3, 2, 7, 13]],
  "currentOdds": [[1, 2, 13, 3, 6], [1, 13, 2, 4, 8], [1, 3, 4, 5, 4], [1, 2, 5, 13, 4], [1, 3, 2, 8, 12]],
  "foods": [
    [26, 7, 19, 35, 4, 12, 31, 22, 1, 38],
    [9, 14, 28, 2, 33, 17, 40, 6, 21, 11],
    [3, 29, 16, 37, 24, 8, 13, 30, 5, 18],
    [10, 25, 34, 15, 39, 20, 27, 36, 23, 32],
    [6, 12, 19, 24, 30, 1, 15, 38, 28, 9]
  ],
  "winners": [0, 0, 0, 0, 0],
  "changes": [
    {"arena": 0, "pirate": 4, "old": 5, "new": 6, "t": "2024-03-01T10:15:00Z"},
    {"arena": 1, "pirate": 1, "old": 12, "new": 13, "t": "2024-03-01T11:02:00Z"},
    {"arena": 1, "pirate": 4, "old": 9, "new": 8, "t": "2024-03-01T12:40:00Z"},
    {"arena": 3, "pirate": 2, "old": 6, "new": 5, "t": "2024-03-01T13:05:00Z"},
    {"arena": 4, "pirate": 3, "old": 7, "new": 8, "t": "2024-03-01T14:30:00Z"},
    {"arena": 4, "pirate": 4, "old": 13, "new": 12, "t": "2024-03-01T15:45:00Z"}
  ],
  "start": "2024-03-01T07:00:00Z",
  "lastChange": "2024-03-01T15:45:00Z"
}`

// SampleWinners resolves the sample round
var SampleWinners = [models.ArenaCount]int{1, 2, 1, 1, 2}

// SampleRound returns a fresh copy of the sample round
func SampleRound(t testing.TB) *models.RoundData {
	t.Helper()
	round, err := models.ParseRound([]byte(SampleRoundJSON))
	require.NoError(t, err, "failed to parse sample round")
	return round
}

// ResolvedRound returns the sample round with winners set
func ResolvedRound(t testing.TB) *models.RoundData {
	t.Helper()
	round := SampleRound(t)
	winners := SampleWinners
	round.Winners = &winners
	return round
}

// FlatRound returns a round with the same odds row in every arena and no foods
func FlatRound(odds [models.PiratesPerArena]int) *models.RoundData {
	round := &models.RoundData{Round: 1}
	id := 1
	for a := 0; a < models.ArenaCount; a++ {
		for p := 0; p < models.PiratesPerArena; p++ {
			round.Pirates[a][p] = id
			id++
			round.OpeningOdds[a][p+1] = odds[p]
			round.CurrentOdds[a][p+1] = odds[p]
		}
		round.OpeningOdds[a][0] = 1
		round.CurrentOdds[a][0] = 1
	}
	return round
}

// PirateSpec describes one pirate of generated reference tables
type PirateSpec struct {
	Positive map[int]int
	Negative map[int]int
	Logit    pirates.Coefficients
}

// BuildTables generates reference tables. Pirates absent from specs get
// the fallback spec.
func BuildTables(t testing.TB, fallback PirateSpec, specs map[int]PirateSpec) *pirates.Tables {
	t.Helper()
	type record struct {
		ID       int                  `yaml:"id"`
		Name     string               `yaml:"name"`
		Positive map[int]int          `yaml:"positive,omitempty"`
		Negative map[int]int          `yaml:"negative,omitempty"`
		Logit    pirates.Coefficients `yaml:"logit"`
	}
	doc := struct {
		Arenas  []string `yaml:"arenas"`
		Pirates []record `yaml:"pirates"`
	}{Arenas: []string{"A", "B", "C", "D", "E"}}

	for id := 1; id <= models.PirateCount; id++ {
		spec, ok := specs[id]
		if !ok {
			spec = fallback
		}
		doc.Pirates = append(doc.Pirates, record{
			ID:       id,
			Name:     fmt.Sprintf("P%d", id),
			Positive: spec.Positive,
			Negative: spec.Negative,
			Logit:    spec.Logit,
		})
	}

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	tables, err := pirates.Decode(data)
	require.NoError(t, err)
	return tables
}

// RoundServer is a fake round-data host counting requests per path.
type RoundServer struct {
	*httptest.Server

	mu      sync.Mutex
	hits    map[string]int
	rounds  map[int]string
	current int
	failing int
}

// NewRoundServer serves /rounds/{n}.json and /current_round.txt.
func NewRoundServer(t testing.TB, current int, rounds map[int]string) *RoundServer {
	t.Helper()
	s := &RoundServer{
		hits:    make(map[string]int),
		rounds:  rounds,
		current: current,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next n requests answer 503.
func (s *RoundServer) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = n
}

// Hits returns how many requests reached a path
func (s *RoundServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *RoundServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	failing := s.failing > 0
	if failing {
		s.failing--
	}
	s.mu.Unlock()

	if failing {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.URL.Path == "/current_round.txt":
		fmt.Fprintf(w, "%d\n", s.current)
	case strings.HasPrefix(r.URL.Path, "/rounds/") && strings.HasSuffix(r.URL.Path, ".json"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/rounds/"), ".json"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body, ok := s.rounds[n]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
