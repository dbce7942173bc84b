// Package probability estimates each pirate's chance of winning its arena.
//
// Two models are available behind the Model interface: Legacy, a bounded
// heuristic over opening odds and food adjustments, and Logit, a
// multinomial-logit regression over per-pirate coefficients.
package probability

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/foodclub/internal/models"
	"github.com/yourusername/foodclub/internal/pirates"
)

// Model names accepted by ForName
const (
	ModelLegacy = "legacy"
	ModelLogit  = "logit"
)

// Row holds one arena's probabilities; index 0 is unused.
type Row = [models.PiratesPerArena + 1]float64

// Model defines the interface for probability estimators
type Model interface {
	Name() string
	ArenaProbabilities(round *models.RoundData, arena int) Row
}

// Matrix runs a model over every arena of a round
func Matrix(m Model, round *models.RoundData) models.ProbabilityMatrix {
	var out models.ProbabilityMatrix
	if round == nil {
		return out
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		out[arena] = m.ArenaProbabilities(round, arena)
	}
	return out
}

// ForName returns the model registered under name
func ForName(name string, tables *pirates.Tables) (Model, error) {
	switch strings.ToLower(name) {
	case ModelLegacy:
		return NewLegacy(tables), nil
	case ModelLogit:
		return NewLogit(tables), nil
	default:
		return nil, fmt.Errorf("unknown probability model %q", name)
	}
}

// Clamp forces p into [0,1]; NaN and infinities become 0.
func Clamp(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ApplyOverrides returns a copy of m with user-supplied probabilities
// written over the given slots. Invalid slots are skipped. Arenas are not
// renormalized afterwards.
func ApplyOverrides(m models.ProbabilityMatrix, overrides map[models.Slot]float64) models.ProbabilityMatrix {
	for slot, p := range overrides {
		if !slot.Valid() {
			continue
		}
		m[slot.Arena][slot.Pirate] = Clamp(p)
	}
	return m
}

// Deviation is an arena whose probability mass is not 1
type Deviation struct {
	Arena int
	Sum   float64
}

// Deviations lists the arenas whose mass differs from 1 by more than tolerance.
func Deviations(m models.ProbabilityMatrix, tolerance float64) []Deviation {
	var out []Deviation
	for arena := 0; arena < models.ArenaCount; arena++ {
		sum := m.ArenaSum(arena)
		if math.Abs(sum-1) > tolerance {
			out = append(out, Deviation{Arena: arena, Sum: sum})
		}
	}
	return out
}
