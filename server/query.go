package vimshottari

import (
	"sort"
	"time"

	Vt "github.com/maroda/vimshottari/types"
)

/*

	Read-only query surface over a built Timeline.

	Every lookup is a descent: pick the active Mahadasha out of the
	nine sorted roots, then repeat the same nine-way pick inside it
	down to the requested level. At most six picks per query, and a
	descent only materializes the single branch it walks through.

*/

// activeChild picks the period containing t out of a sorted,
// contiguous nine-slice. Returns nil when t is outside the slice
// span (including zero-length periods, which contain nothing).
func activeChild(periods []*Period, t time.Time) *Period {
	i := sort.Search(len(periods), func(i int) bool {
		return t.Before(periods[i].End)
	})
	if i >= len(periods) || !periods[i].Contains(t) {
		return nil
	}
	return periods[i]
}

// At finds the Period active at instant t for the requested level.
// A query outside the covered lifespan is not an error, it answers
// (nil, false): asking about a date beyond the cycle is a valid
// question with an empty answer.
func (tl *Timeline) At(t time.Time, level Vt.PeriodLevel) (*Period, bool) {
	p := activeChild(tl.Roots, t)
	if p == nil {
		return nil, false
	}

	for p.Level < level {
		p = activeChild(p.Children(), t)
		if p == nil {
			// Cannot happen on a well-formed tree: children tile
			// the parent exactly. Kept as a guard, not a branch.
			return nil, false
		}
	}
	return p, true
}

// Chain returns the active Period at every level from Mahadasha
// down to the requested depth, in level order. Each element carries
// its parent back-reference, so callers can render
// "Mahadasha X / Antardasha Y / ..." without re-querying.
func (tl *Timeline) Chain(t time.Time, level Vt.PeriodLevel) ([]*Period, bool) {
	p, ok := tl.At(t, level)
	if !ok {
		return nil, false
	}

	chain := make([]*Period, int(level)+1)
	for i := int(level); i >= 0; i-- {
		chain[i] = p
		p = p.Parent()
	}
	return chain, true
}

// ProgressAt is the elapsed share of the period at t, clamped to [0,1].
func (p *Period) ProgressAt(t time.Time) float64 {
	total := p.End.Sub(p.Start)
	if total <= 0 {
		return 1
	}

	frac := float64(t.Sub(p.Start)) / float64(total)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// RemainingAt is the wall time left in the period at t.
// Unit choice for display (years for coarse levels, minutes for
// fine ones) belongs to the caller, this always answers in Duration.
func (p *Period) RemainingAt(t time.Time) time.Duration {
	rem := p.End.Sub(t)
	if rem < 0 {
		return 0
	}
	return rem
}

// NextAt returns the successor of p at the same level, crossing
// parent (and Mahadasha) boundaries, or nil at the end of coverage.
// Walking successors only materializes the branches it enters.
func (tl *Timeline) NextAt(p *Period) *Period {
	siblings := tl.Roots
	if p.Parent() != nil {
		siblings = p.Parent().Children()
	}

	for i, s := range siblings {
		if s != p {
			continue
		}
		if i+1 < len(siblings) {
			return siblings[i+1]
		}
		// Last sibling: descend into the parent's own successor.
		if p.Parent() == nil {
			return nil
		}
		up := tl.NextAt(p.Parent())
		if up == nil {
			return nil
		}
		return up.Children()[0]
	}
	return nil
}

// PrevAt returns the predecessor of p at the same level, crossing
// parent (and Mahadasha) boundaries, or nil at the start of coverage.
func (tl *Timeline) PrevAt(p *Period) *Period {
	siblings := tl.Roots
	if p.Parent() != nil {
		siblings = p.Parent().Children()
	}

	for i, s := range siblings {
		if s != p {
			continue
		}
		if i > 0 {
			return siblings[i-1]
		}
		// First sibling: descend into the parent's own predecessor.
		if p.Parent() == nil {
			return nil
		}
		up := tl.PrevAt(p.Parent())
		if up == nil {
			return nil
		}
		children := up.Children()
		return children[len(children)-1]
	}
	return nil
}

// FirstAt returns the earliest Period at a level, materializing
// only the leftmost branch.
func (tl *Timeline) FirstAt(level Vt.PeriodLevel) *Period {
	p := tl.Roots[0]
	for p.Level < level {
		p = p.Children()[0]
	}
	return p
}

// Periods returns the flattened, time-ordered sequence at a level
// across the whole timeline. Cheap for Mahadasha/Antardasha, for
// finer levels it forces full expansion of every branch, so list
// views stick to the coarse levels.
func (tl *Timeline) Periods(level Vt.PeriodLevel) []*Period {
	var out []*Period
	for p := tl.FirstAt(level); p != nil; p = tl.NextAt(p) {
		out = append(out, p)
	}
	return out
}
