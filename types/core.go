package types

/*

	These are the "immutable" core types of Vimshottari,
	provided for cross-package use (e.g. Plugins) and testing.

	There are no functions defined here.
	Struct constructors are housed in their own packages.
	Methods taking these types should create local aliases,
	for example: type Sandhis []Vt.DashaSandhi

*/

import "time"

// Ruler is one of the nine period-bearing grahas.
// The declaration order IS the Vimshottari cyclic order:
// every subdivision in the system walks this ring.
// Rulers are never compared by name, only by ring position.
type Ruler int

const (
	Ketu Ruler = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
)

// PeriodLevel is the recursion depth of a Period,
// from coarsest (years) to finest (minutes).
type PeriodLevel int

const (
	Mahadasha PeriodLevel = iota
	Antardasha
	Pratyantardasha
	Sookshmadasha
	Pranadasha
	Dehadasha
)

// These glyphs mark the grahas in ring order.
// Mostly these are unused constants, but here for reference.
const (
	ketu    = "☋" // U+260B descending node
	venus   = "♀" // U+2640
	sun     = "☉" // U+2609
	moon    = "☽" // U+263D
	mars    = "♂" // U+2642
	rahu    = "☊" // U+260A ascending node
	jupiter = "♃" // U+2643
	saturn  = "♄" // U+2644
	mercury = "☿" // U+263F
)

// DashaSandhi is a derived value describing one period-to-period
// junction at a given level. It is computed on demand by the
// detector and never stored inside the period tree itself.
// Transition is always an exact shared boundary instant:
// the end of the outgoing Period and the start of the incoming one.
type DashaSandhi struct {
	ChartID     string      // which chart produced this junction
	Level       PeriodLevel // level of the two adjacent periods
	FromRuler   Ruler       // ruler of the ending period
	ToRuler     Ruler       // ruler of the beginning period
	Transition  time.Time   // shared boundary instant
	SandhiStart time.Time   // opening of the sensitive zone
	SandhiEnd   time.Time   // close of the sensitive zone
}

// SandhiMode selects how the zone around a transition is sized.
type SandhiMode int

const (
	SandhiFixed    SandhiMode = iota // FixedDays on each side of the transition
	SandhiFraction                   // Fraction of the shorter adjacent period, each side
)

// SandhiPolicy is the tunable zone definition.
// The width of a sandhi zone is a product decision, not a constant,
// so it always travels with the scan that uses it.
type SandhiPolicy struct {
	Mode      SandhiMode
	FixedDays float64 // half-width in days, used by SandhiFixed
	Fraction  float64 // half-width as a share of the shorter period, used by SandhiFraction
}
