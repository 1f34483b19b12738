package vimshottari

import (
	"fmt"
	"strings"

	Vt "github.com/maroda/vimshottari/types"
)

// FullCycleYears is one complete pass of the nine rulers.
// The nine weights below sum to exactly this.
const FullCycleYears = 120

// SequenceEntry pairs a ruler with its full Mahadasha weight in years.
type SequenceEntry struct {
	Ruler Vt.Ruler
	Years int
}

// Sequence is the fixed Vimshottari ring.
// This is the single shared table consulted by every subdivision,
// it is package-level and read-only so the ordering cannot drift
// between callers. Never mutate it.
var Sequence = [9]SequenceEntry{
	{Vt.Ketu, 7},
	{Vt.Venus, 20},
	{Vt.Sun, 6},
	{Vt.Moon, 10},
	{Vt.Mars, 7},
	{Vt.Rahu, 18},
	{Vt.Jupiter, 16},
	{Vt.Saturn, 19},
	{Vt.Mercury, 17},
}

// rulerNames is indexed by ring position, same order as Sequence.
var rulerNames = [9]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

// levelNames is indexed by recursion depth.
var levelNames = [6]string{
	"Mahadasha", "Antardasha", "Pratyantardasha", "Sookshmadasha", "Pranadasha", "Dehadasha",
}

// WeightOf returns the full Mahadasha span in years for a ruler.
// Defined for all nine rulers, there is no error case.
func WeightOf(r Vt.Ruler) int {
	return Sequence[int(r)%9].Years
}

// RulerAfter returns the next ruler on the ring, wrapping after Mercury.
func RulerAfter(r Vt.Ruler) Vt.Ruler {
	return Vt.Ruler((int(r) + 1) % 9)
}

// RulerAt returns the i-th successor of r on the ring.
// RulerAt(r, 0) is r itself.
func RulerAt(r Vt.Ruler, i int) Vt.Ruler {
	return Vt.Ruler((int(r) + i) % 9)
}

// RulerName gives the display name for a ruler.
func RulerName(r Vt.Ruler) string {
	if r < 0 || int(r) > 8 {
		return "unknown"
	}
	return rulerNames[int(r)]
}

// ParseRuler maps a config/API name back to its ring position.
// Matching is case-insensitive because names arrive from hand-edited JSON.
func ParseRuler(name string) (Vt.Ruler, error) {
	for i, n := range rulerNames {
		if strings.EqualFold(n, name) {
			return Vt.Ruler(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRuler, name)
}

// LevelName gives the display name for a period level.
func LevelName(l Vt.PeriodLevel) string {
	if l < 0 || int(l) > 5 {
		return "unknown"
	}
	return levelNames[int(l)]
}

// ParseLevel accepts either a depth ("0".."5") or a level name.
func ParseLevel(s string) (Vt.PeriodLevel, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '5' {
		return Vt.PeriodLevel(s[0] - '0'), nil
	}
	for i, n := range levelNames {
		if strings.EqualFold(n, s) {
			return Vt.PeriodLevel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
