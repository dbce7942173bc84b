package calculator

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Memo stages, the last path element before the input fingerprint
const (
	stageProbabilities = "probs"
	stageBets          = "bets"
	stagePayout        = "payout"
	stageAllBets       = "all"
)

// Fingerprint returns a stable name-based UUID of the JSON form of parts.
func Fingerprint(parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// unreachable for the plain value types hashed here
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprint(parts...))).String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String()
}

// RoundPrefix returns the key prefix covering every entry of one round
func RoundPrefix(round int) string {
	return fmt.Sprintf("r/%d/", round)
}

// stageKey builds r/<round>/<round fingerprint>/<stage>/<input fingerprint>
func stageKey(round int, roundFP, stage, inputFP string) string {
	return fmt.Sprintf("%s%s/%s/%s", RoundPrefix(round), roundFP, stage, inputFP)
}
