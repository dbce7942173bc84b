// Package pirates provides the static Food Club reference tables: pirate and
// arena names, food adjustment magnitudes and logit model coefficients.
package pirates

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/foodclub/internal/models"
)

//go:embed pirates.yaml
var embedded []byte

// Coefficients are the per-pirate multinomial-logit regression weights
type Coefficients struct {
	Intercept float64 `yaml:"intercept"`
	PFA       float64 `yaml:"pfa"`
	NFA       float64 `yaml:"nfa"`
	Pos2      float64 `yaml:"pos2"`
	Pos3      float64 `yaml:"pos3"`
	Pos4      float64 `yaml:"pos4"`
}

type pirateRecord struct {
	ID       int          `yaml:"id"`
	Name     string       `yaml:"name"`
	Positive map[int]int  `yaml:"positive"`
	Negative map[int]int  `yaml:"negative"`
	Logit    Coefficients `yaml:"logit"`
}

type document struct {
	Arenas  []string       `yaml:"arenas"`
	Pirates []pirateRecord `yaml:"pirates"`
}

// Tables is the decoded, read-only reference data.
// Index 0 of every pirate and food dimension is an always-zero row.
type Tables struct {
	arenas   [models.ArenaCount]string
	names    [models.PirateCount + 1]string
	positive [models.PirateCount + 1][models.FoodCount + 1]int
	negative [models.PirateCount + 1][models.FoodCount + 1]int
	logit    [models.PirateCount + 1]Coefficients
}

var (
	defaultTables *Tables
	loadOnce      sync.Once
	loadErr       error
)

// Load decodes the embedded tables once and returns the shared instance
func Load() (*Tables, error) {
	loadOnce.Do(func() {
		defaultTables, loadErr = Decode(embedded)
	})
	return defaultTables, loadErr
}

// Default returns the embedded tables, panicking if the asset is corrupt.
func Default() *Tables {
	t, err := Load()
	if err != nil {
		panic(fmt.Sprintf("pirates: embedded tables: %v", err))
	}
	return t
}

// Decode parses a YAML reference document and checks it is complete.
func Decode(data []byte) (*Tables, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode pirate tables: %w", err)
	}
	if len(doc.Arenas) != models.ArenaCount {
		return nil, fmt.Errorf("expected %d arenas, got %d", models.ArenaCount, len(doc.Arenas))
	}

	t := &Tables{}
	copy(t.arenas[:], doc.Arenas)

	seen := make(map[int]bool, models.PirateCount)
	for _, p := range doc.Pirates {
		if p.ID < 1 || p.ID > models.PirateCount {
			return nil, fmt.Errorf("pirate id %d out of range", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate pirate id %d", p.ID)
		}
		seen[p.ID] = true
		t.names[p.ID] = p.Name
		t.logit[p.ID] = p.Logit

		if err := fillFA(&t.positive[p.ID], p.Positive); err != nil {
			return nil, fmt.Errorf("pirate %d positive: %w", p.ID, err)
		}
		if err := fillFA(&t.negative[p.ID], p.Negative); err != nil {
			return nil, fmt.Errorf("pirate %d negative: %w", p.ID, err)
		}
	}
	if len(seen) != models.PirateCount {
		return nil, fmt.Errorf("expected %d pirates, got %d", models.PirateCount, len(seen))
	}

	return t, nil
}

func fillFA(row *[models.FoodCount + 1]int, values map[int]int) error {
	for food, v := range values {
		if food < 1 || food > models.FoodCount {
			return fmt.Errorf("food id %d out of range", food)
		}
		if v < 0 {
			return fmt.Errorf("food %d has negative magnitude %d", food, v)
		}
		row[food] = v
	}
	return nil
}

func validPirate(id int) bool { return id >= 1 && id <= models.PirateCount }

func validFood(id int) bool { return id >= 1 && id <= models.FoodCount }

// PositiveFA returns the positive food adjustment of a pirate for a food
func (t *Tables) PositiveFA(pirateID, foodID int) int {
	if !validPirate(pirateID) || !validFood(foodID) {
		return 0
	}
	return t.positive[pirateID][foodID]
}

// NegativeFA returns the negative food adjustment magnitude of a pirate for a food
func (t *Tables) NegativeFA(pirateID, foodID int) int {
	if !validPirate(pirateID) || !validFood(foodID) {
		return 0
	}
	return t.negative[pirateID][foodID]
}

// Logit returns the regression coefficients of a pirate; zero for unknown ids.
func (t *Tables) Logit(pirateID int) Coefficients {
	if !validPirate(pirateID) {
		return Coefficients{}
	}
	return t.logit[pirateID]
}

// PirateName returns the display name of a pirate
func (t *Tables) PirateName(pirateID int) string {
	if !validPirate(pirateID) {
		return fmt.Sprintf("Pirate #%d", pirateID)
	}
	return t.names[pirateID]
}

// ArenaName returns the display name of an arena
func (t *Tables) ArenaName(arena int) string {
	if arena < 0 || arena >= models.ArenaCount {
		return fmt.Sprintf("Arena #%d", arena)
	}
	return t.arenas[arena]
}
