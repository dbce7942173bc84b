package models

// PayoutEntry is one achievable value of a payout distribution.
// Cumulative is P(X <= Value) and Tail is P(X >= Value).
type PayoutEntry struct {
	Value       int     `json:"value"`
	Probability float64 `json:"probability"`
	Cumulative  float64 `json:"cumulative"`
	Tail        float64 `json:"tail"`
}

// PayoutTable is a discrete distribution sorted by ascending value
type PayoutTable struct {
	Entries []PayoutEntry `json:"entries"`
	Mean    float64       `json:"mean"`
	StdDev  float64       `json:"stdDev"`
}

// ProbabilityAtLeast returns P(X >= value)
func (t PayoutTable) ProbabilityAtLeast(value int) float64 {
	for _, e := range t.Entries {
		if e.Value >= value {
			return e.Tail
		}
	}
	return 0
}

// Max returns the largest achievable value
func (t PayoutTable) Max() int {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[len(t.Entries)-1].Value
}

// PayoutTables holds the total-odds and total-winnings distributions of
// one set of active bets.
type PayoutTables struct {
	Odds     PayoutTable `json:"odds"`
	Winnings PayoutTable `json:"winnings"`
}
