package vimshottari

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	Mp "github.com/maroda/vimshottari/plugin"
	Vt "github.com/maroda/vimshottari/types"
)

// Contract errors raised at construction.
// Inputs come from an upstream ephemeris, a value outside its
// contract is that system's bug, so we fail fast and never clamp.
var (
	ErrBalanceRange = errors.New("balance fraction out of range [0,1)")
	ErrUnknownRuler = errors.New("unknown ruler")
	ErrUnknownLevel = errors.New("unknown level")
)

// DaysPerYear converts dasha years into wall time.
// All internal math stays in fractional years,
// conversion to instants happens in exactly one place (AddYears).
const DaysPerYear = 365.25

// AddYears returns t advanced by a fractional number of dasha years.
func AddYears(t time.Time, years float64) time.Time {
	return t.Add(YearsToDuration(years))
}

// YearsToDuration converts fractional dasha years to a time.Duration.
func YearsToDuration(years float64) time.Duration {
	return time.Duration(years * DaysPerYear * 24 * float64(time.Hour))
}

// Period is one interval at one level: a half-open [Start, End).
// Every Period below Dehadasha owns exactly nine children at the
// next level. Ownership flows parent to child only, the parent
// pointer is a convenience back-reference for chain display.
//
// A Period is immutable after construction. The one exception is
// the lazy child expansion below Antardasha, which is guarded by
// expand so concurrent readers never race to build duplicate subtrees.
type Period struct {
	Ruler Vt.Ruler
	Level Vt.PeriodLevel
	Start time.Time
	End   time.Time
	Years float64 // duration in dasha years

	parent   *Period
	expand   sync.Once
	children []*Period
}

// Parent returns the owning Period, or nil for a Mahadasha root.
func (p *Period) Parent() *Period {
	return p.parent
}

// Children materializes (once) and returns the nine sub-periods.
// Dehadasha is the leaf level and returns nil.
func (p *Period) Children() []*Period {
	if p.Level >= Vt.Dehadasha {
		return nil
	}
	p.expand.Do(func() {
		p.children = subdivide(p)
	})
	return p.children
}

// Contains reports whether t falls inside the half-open interval.
func (p *Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// subdivide is the single recursion rule of the whole system.
// The nine children start on the parent's own ruler and walk the
// ring from there, each weighted by its share of the 120-year cycle.
//
// Child boundaries are cut from the running cumulative sum against
// the parent's start, never by stacking child durations, and the
// ninth child is pinned to the parent's end. Adjacent periods
// therefore share bit-identical boundary instants at every level.
func subdivide(parent *Period) []*Period {
	children := make([]*Period, 9)

	cum := 0.0
	start := parent.Start
	for i := 0; i < 9; i++ {
		ruler := RulerAt(parent.Ruler, i)
		years := parent.Years * float64(WeightOf(ruler)) / FullCycleYears

		cum += years
		end := AddYears(parent.Start, cum)
		if i == 8 {
			end = parent.End
		}

		children[i] = &Period{
			Ruler:  ruler,
			Level:  parent.Level + 1,
			Start:  start,
			End:    end,
			Years:  years,
			parent: parent,
		}
		start = end
	}
	return children
}

// Timeline is the root aggregate for one chart: the nine Mahadasha
// periods covering [birth, birth + 120 - elapsed) contiguously.
// It is built once per birth input and read-only afterwards,
// safe to query from any number of goroutines.
type Timeline struct {
	ID         string
	Birth      time.Time
	BirthRuler Vt.Ruler
	Balance    float64 // fraction of the birth ruler's span still remaining at birth
	Roots      []*Period
}

// NewTimeline builds the full Mahadasha sequence for a birth input
// and eagerly materializes down to Antardasha (the levels every list
// view needs). Finer levels expand on first query.
//
// The first root is the birth ruler truncated to its remaining
// balance, the other eight follow the ring with full spans: one
// complete pass, 120 years minus what elapsed before birth.
func NewTimeline(id string, birth time.Time, ruler Vt.Ruler, balance float64) (*Timeline, error) {
	if ruler < 0 || ruler > 8 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRuler, ruler)
	}
	if balance < 0 || balance >= 1 {
		return nil, fmt.Errorf("%w: %g", ErrBalanceRange, balance)
	}

	tl := &Timeline{
		ID:         id,
		Birth:      birth,
		BirthRuler: ruler,
		Balance:    balance,
		Roots:      make([]*Period, 9),
	}

	// Cumulative years since birth, same drift rule as subdivide.
	cum := float64(WeightOf(ruler)) * balance
	tl.Roots[0] = &Period{
		Ruler: ruler,
		Level: Vt.Mahadasha,
		Start: birth,
		End:   AddYears(birth, cum),
		Years: cum,
	}

	prev := ruler
	for i := 1; i < 9; i++ {
		next := RulerAfter(prev)
		years := float64(WeightOf(next))
		cum += years

		tl.Roots[i] = &Period{
			Ruler: next,
			Level: Vt.Mahadasha,
			Start: tl.Roots[i-1].End,
			End:   AddYears(birth, cum),
			Years: years,
		}
		prev = next
	}

	// Antardasha is always wanted by list views, fill it now.
	for _, root := range tl.Roots {
		root.Children()
	}

	slog.Info("Timeline built",
		slog.String("chart", id),
		slog.String("ruler", RulerName(ruler)),
		slog.Float64("coverageYears", tl.CoverageYears()))

	return tl, nil
}

// CoverageYears is the total span from birth to the end of the ninth
// Mahadasha: 120 minus the years elapsed before birth.
func (tl *Timeline) CoverageYears() float64 {
	total := 0.0
	for _, r := range tl.Roots {
		total += r.Years
	}
	return total
}

// Span returns the half-open interval the timeline covers.
func (tl *Timeline) Span() (time.Time, time.Time) {
	return tl.Roots[0].Start, tl.Roots[8].End
}

// ChartSet is the set of built Timelines the host app serves.
// This is where config becomes live charts, and where pointers
// to the optional alert output live. The RWMutex only guards the
// slice swap on reload, the Timelines themselves are immutable.
type ChartSet struct {
	MU     sync.RWMutex
	Charts []*Timeline
	Output Mp.AlertSink // optional sink for detected sandhi, may be nil
}

// NewChartSet wraps already-built timelines.
func NewChartSet(charts []*Timeline) *ChartSet {
	return &ChartSet{Charts: charts}
}

// NewChartSetFromConfig builds one Timeline per config stanza.
// Any bad stanza fails the whole load: a chart silently dropped
// would be worse than a startup error.
func NewChartSetFromConfig(cf []ConfigFile) (*ChartSet, error) {
	charts := make([]*Timeline, 0, len(cf))

	for _, c := range cf {
		birth, err := time.Parse(time.RFC3339, c.Birth)
		if err != nil {
			slog.Error("Could not parse birth instant",
				slog.String("chart", c.ID), slog.Any("Error", err))
			return nil, fmt.Errorf("chart %q birth: %w", c.ID, err)
		}

		ruler, err := ParseRuler(c.Ruler)
		if err != nil {
			slog.Error("Could not parse birth ruler",
				slog.String("chart", c.ID), slog.Any("Error", err))
			return nil, fmt.Errorf("chart %q ruler: %w", c.ID, err)
		}

		tl, err := NewTimeline(c.ID, birth, ruler, c.Balance)
		if err != nil {
			slog.Error("Could not build timeline",
				slog.String("chart", c.ID), slog.Any("Error", err))
			return nil, fmt.Errorf("chart %q: %w", c.ID, err)
		}

		charts = append(charts, tl)
	}

	return NewChartSet(charts), nil
}

// Chart looks up a timeline by its config ID.
func (cs *ChartSet) Chart(id string) (*Timeline, bool) {
	cs.MU.RLock()
	defer cs.MU.RUnlock()

	for _, tl := range cs.Charts {
		if tl.ID == id {
			return tl, true
		}
	}
	return nil, false
}
