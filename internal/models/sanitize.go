package models

import "fmt"

// Diagnostic describes one input value that was clamped or ignored.
type Diagnostic struct {
	Field   string `json:"field"`
	Arena   int    `json:"arena"`
	Index   int    `json:"index"`
	Value   int    `json:"value"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%d][%d]=%d: %s", d.Field, d.Arena, d.Index, d.Value, d.Message)
}

// ClampOdds forces odds into [MinOdds, MaxOdds].
func ClampOdds(odds int) int {
	if odds < MinOdds {
		return MinOdds
	}
	if odds > MaxOdds {
		return MaxOdds
	}
	return odds
}

// Sanitize returns a copy of the round with out-of-range odds clamped and
// unknown pirate or food identities zeroed. Missing opening odds are taken
// from the current odds. An arena without any current odds is left unpriced
// and reported once. The receiver is not modified.
func (r *RoundData) Sanitize() (*RoundData, []Diagnostic) {
	if r == nil {
		return nil, nil
	}
	out := *r
	var diags []Diagnostic

	for a := 0; a < ArenaCount; a++ {
		for i := 0; i < PiratesPerArena; i++ {
			id := out.Pirates[a][i]
			if id < 1 || id > PirateCount {
				diags = append(diags, Diagnostic{Field: "pirates", Arena: a, Index: i, Value: id, Message: "unknown pirate ignored"})
				out.Pirates[a][i] = 0
			}
		}
	}

	for a := 0; a < ArenaCount; a++ {
		if !out.CurrentOdds.Priced(a) {
			diags = append(diags, Diagnostic{Field: "currentOdds", Arena: a, Message: "arena has no odds, bets on it are unpriced"})
		}
		for p := 1; p <= PiratesPerArena; p++ {
			if out.OpeningOdds[a][p] == 0 {
				out.OpeningOdds[a][p] = out.CurrentOdds[a][p]
			}
		}
	}

	out.OpeningOdds, diags = sanitizeOdds("openingOdds", out.OpeningOdds, diags)
	out.CurrentOdds, diags = sanitizeOdds("currentOdds", out.CurrentOdds, diags)

	if r.Foods != nil {
		foods := *r.Foods
		for a := 0; a < ArenaCount; a++ {
			for i := 0; i < FoodsPerArena; i++ {
				id := foods[a][i]
				if id < 1 || id > FoodCount {
					diags = append(diags, Diagnostic{Field: "foods", Arena: a, Index: i, Value: id, Message: "unknown food ignored"})
					foods[a][i] = 0
				}
			}
		}
		out.Foods = &foods
	}

	if r.Winners != nil {
		winners := *r.Winners
		for a, w := range winners {
			if w < 0 || w > PiratesPerArena {
				diags = append(diags, Diagnostic{Field: "winners", Arena: a, Value: w, Message: "winner out of range treated as unresolved"})
				winners[a] = 0
			}
		}
		out.Winners = &winners
	}

	if r.Changes != nil {
		out.Changes = append([]OddsChange(nil), r.Changes...)
	}

	return &out, diags
}

// SanitizeOdds clamps a user-supplied odds matrix, recording each change.
// Arenas with no odds at all stay unpriced.
func SanitizeOdds(field string, odds OddsMatrix) (OddsMatrix, []Diagnostic) {
	return sanitizeOdds(field, odds, nil)
}

func sanitizeOdds(field string, odds OddsMatrix, diags []Diagnostic) (OddsMatrix, []Diagnostic) {
	for a := 0; a < ArenaCount; a++ {
		if !odds.Priced(a) {
			continue
		}
		for p := 1; p <= PiratesPerArena; p++ {
			v := odds[a][p]
			if c := ClampOdds(v); c != v {
				diags = append(diags, Diagnostic{Field: field, Arena: a, Index: p, Value: v, Message: fmt.Sprintf("odds clamped to %d", c)})
				odds[a][p] = c
			}
		}
	}
	return odds, diags
}
