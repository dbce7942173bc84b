// Package betcode maps bet lines to and from their 20-bit binary identifiers.
//
// Arena a, pirate slot p (1..4) owns bit a*4 + (p-1). A bet sets at most one
// bit per arena; the empty bet encodes to 0.
package betcode

import (
	"fmt"
	"math/bits"

	"github.com/yourusername/foodclub/internal/models"
)

const (
	bitsPerArena = models.PiratesPerArena
	arenaMask    = 1<<bitsPerArena - 1

	// Mask covers every valid bit of a bet binary.
	Mask = 1<<(models.ArenaCount*bitsPerArena) - 1
)

// BitPosition returns the bit owned by a pirate, or -1 for no pick.
func BitPosition(arena, pirate int) int {
	if arena < 0 || arena >= models.ArenaCount || pirate < 1 || pirate > models.PiratesPerArena {
		return -1
	}
	return arena*bitsPerArena + (pirate - 1)
}

// PirateBinary returns the single-bit contribution of a pick, 0 for no pick.
func PirateBinary(arena, pirate int) int {
	pos := BitPosition(arena, pirate)
	if pos < 0 {
		return 0
	}
	return 1 << pos
}

// Encode ORs together each arena's pick. Out-of-range picks contribute nothing;
// use Choices.Validate first when that must be an error.
func Encode(choices models.Choices) int {
	binary := 0
	for arena, pirate := range choices {
		binary |= PirateBinary(arena, pirate)
	}
	return binary
}

// Decode maps a binary back to its bet line. When an arena group has more
// than one bit set the lowest one wins; bits above Mask are ignored.
func Decode(binary int) models.Choices {
	var choices models.Choices
	for arena := 0; arena < models.ArenaCount; arena++ {
		group := arenaGroup(binary, arena)
		if group == 0 {
			continue
		}
		choices[arena] = bits.TrailingZeros(uint(group)) + 1
	}
	return choices
}

// Validate rejects binaries that Encode could never produce.
func Validate(binary int) error {
	if binary < 0 || binary&^Mask != 0 {
		return fmt.Errorf("%w: %#x has bits outside %#x", models.ErrInvalidBinary, binary, Mask)
	}
	for arena := 0; arena < models.ArenaCount; arena++ {
		if n := bits.OnesCount(uint(arenaGroup(binary, arena))); n > 1 {
			return fmt.Errorf("%w: arena %d has %d pirates selected", models.ErrInvalidBinary, arena, n)
		}
	}
	return nil
}

// Arenas returns the number of arenas a binary picks in
func Arenas(binary int) int {
	n := 0
	for arena := 0; arena < models.ArenaCount; arena++ {
		if arenaGroup(binary, arena) != 0 {
			n++
		}
	}
	return n
}

// ArenaMask returns the bits of one arena's group
func ArenaMask(arena int) int {
	return arenaMask << (arena * bitsPerArena)
}

// Hits reports whether a bet wins given the binary of the arena winners.
// Unpicked arenas never constrain the bet; the empty bet never hits.
func Hits(betBinary, winnersBinary int) bool {
	return betBinary != 0 && betBinary&^winnersBinary == 0
}

// IsSubset reports whether every pick of sub is also a pick of super
func IsSubset(sub, super int) bool {
	return sub&^super == 0
}

func arenaGroup(binary, arena int) int {
	return (binary >> (arena * bitsPerArena)) & arenaMask
}
