package vimshottari

import (
	"log/slog"
	"time"

	Vt "github.com/maroda/vimshottari/types"
)

// Default zone policy: one eighth of the shorter adjacent period
// on each side of the junction. The right width is a product
// question, so everything here is overridable per detector
// (see PolicyFromEnv) and nothing downstream assumes a mode.
const (
	defaultSandhiFraction = 0.125
	defaultSandhiDays     = 3.0
)

// SandhiDetector scans a timeline level for period junctions.
// It holds no state besides the zone policy and is safe to share.
type SandhiDetector struct {
	Policy Vt.SandhiPolicy
}

func NewSandhiDetector(policy Vt.SandhiPolicy) *SandhiDetector {
	return &SandhiDetector{Policy: policy}
}

// DefaultSandhiPolicy is fraction-of-shorter-period sizing.
func DefaultSandhiPolicy() Vt.SandhiPolicy {
	return Vt.SandhiPolicy{
		Mode:      Vt.SandhiFraction,
		FixedDays: defaultSandhiDays,
		Fraction:  defaultSandhiFraction,
	}
}

// PolicyFromEnv fills a policy from the runtime environment:
// VIMSHOTTARI_SANDHI_MODE (fixed|fraction),
// VIMSHOTTARI_SANDHI_DAYS, VIMSHOTTARI_SANDHI_FRACTION.
// Anything unset keeps its default.
func PolicyFromEnv() Vt.SandhiPolicy {
	policy := DefaultSandhiPolicy()

	if FillEnvVar("VIMSHOTTARI_SANDHI_MODE") == "fixed" {
		policy.Mode = Vt.SandhiFixed
	}
	policy.FixedDays = FillEnvVarFloat("VIMSHOTTARI_SANDHI_DAYS", policy.FixedDays)
	policy.Fraction = FillEnvVarFloat("VIMSHOTTARI_SANDHI_FRACTION", policy.Fraction)

	return policy
}

// halfWidth sizes one side of the zone around a junction.
func (sd *SandhiDetector) halfWidth(from, to *Period) time.Duration {
	switch sd.Policy.Mode {
	case Vt.SandhiFixed:
		return time.Duration(sd.Policy.FixedDays * 24 * float64(time.Hour))
	default:
		shorter := from.Years
		if to.Years < shorter {
			shorter = to.Years
		}
		return YearsToDuration(shorter * sd.Policy.Fraction)
	}
}

// Zone returns the sensitive window straddling the junction
// between two adjacent periods.
func (sd *SandhiDetector) Zone(from, to *Period) (time.Time, time.Time) {
	hw := sd.halfWidth(from, to)
	return from.End.Add(-hw), from.End.Add(hw)
}

// Scan enumerates every adjacent-period junction at the given level
// whose transition instant falls within [now, now+window].
//
// The walk runs over the flattened, time-ordered sequence at the
// level, so junctions that straddle two different Mahadashas are
// found like any other. Each transition instant is the exact shared
// boundary of the two periods, never recomputed.
func (sd *SandhiDetector) Scan(tl *Timeline, level Vt.PeriodLevel, now time.Time, window time.Duration) []Vt.DashaSandhi {
	start, end := tl.Span()
	if !now.Before(end) {
		return nil
	}

	// Begin at the active period, or at the first one for
	// queries from before birth.
	p, ok := tl.At(now, level)
	if !ok {
		if now.After(start) {
			return nil
		}
		p = tl.FirstAt(level)
	} else if p.Start.Equal(now) {
		// The window is inclusive at now: a transition landing
		// exactly on the scan instant belongs to the junction
		// behind the cursor, so begin one period earlier.
		if prev := tl.PrevAt(p); prev != nil {
			p = prev
		}
	}

	horizon := now.Add(window)
	var found []Vt.DashaSandhi

	for p != nil {
		next := tl.NextAt(p)
		if next == nil {
			break // end of coverage, the last End has no successor
		}

		boundary := p.End
		if boundary.After(horizon) {
			break
		}
		if !boundary.Before(now) {
			zoneStart, zoneEnd := sd.Zone(p, next)
			found = append(found, Vt.DashaSandhi{
				ChartID:     tl.ID,
				Level:       level,
				FromRuler:   p.Ruler,
				ToRuler:     next.Ruler,
				Transition:  boundary,
				SandhiStart: zoneStart,
				SandhiEnd:   zoneEnd,
			})
		}
		p = next
	}

	slog.Debug("Sandhi scan complete",
		slog.String("chart", tl.ID),
		slog.String("level", LevelName(level)),
		slog.Int("found", len(found)))

	return found
}

// IsWithinSandhi reports whether now falls inside the sensitive
// zone of a junction (inclusive on both ends).
func IsWithinSandhi(s Vt.DashaSandhi, now time.Time) bool {
	return !now.Before(s.SandhiStart) && !now.After(s.SandhiEnd)
}
