package vimshottari

import (
	"testing"
	"time"

	Vt "github.com/maroda/vimshottari/types"
)

func TestSandhiScan(t *testing.T) {
	tl := makeTestTimeline(t)
	sd := NewSandhiDetector(DefaultSandhiPolicy())

	t.Run("Finds every Mahadasha junction over the whole life", func(t *testing.T) {
		found := sd.Scan(tl, Vt.Mahadasha, testBirth, YearsToDuration(120))
		if len(found) != 8 {
			t.Fatalf("got %d junctions, want 8", len(found))
		}

		// Every transition instant must be an exact period boundary
		periods := tl.Periods(Vt.Mahadasha)
		for i, s := range found {
			if !s.Transition.Equal(periods[i].End) {
				t.Errorf("junction %d transition %v != period end %v", i, s.Transition, periods[i].End)
			}
			if !s.Transition.Equal(periods[i+1].Start) {
				t.Errorf("junction %d transition %v != next period start %v", i, s.Transition, periods[i+1].Start)
			}
			if s.FromRuler != periods[i].Ruler || s.ToRuler != periods[i+1].Ruler {
				t.Errorf("junction %d rulers %s->%s, want %s->%s",
					i, RulerName(s.FromRuler), RulerName(s.ToRuler),
					RulerName(periods[i].Ruler), RulerName(periods[i+1].Ruler))
			}
		}
	})

	t.Run("Respects the lookahead window", func(t *testing.T) {
		// Venus's truncated span ends at birth+10y, nothing sooner
		none := sd.Scan(tl, Vt.Mahadasha, testBirth, YearsToDuration(9))
		if len(none) != 0 {
			t.Errorf("got %d junctions inside 9 years, want 0", len(none))
		}

		one := sd.Scan(tl, Vt.Mahadasha, testBirth, YearsToDuration(11))
		if len(one) != 1 {
			t.Fatalf("got %d junctions inside 11 years, want 1", len(one))
		}
		if one[0].FromRuler != Vt.Venus || one[0].ToRuler != Vt.Sun {
			t.Errorf("junction is %s->%s, want Venus->Sun",
				RulerName(one[0].FromRuler), RulerName(one[0].ToRuler))
		}
	})

	t.Run("Crosses Mahadasha boundaries at the Antardasha level", func(t *testing.T) {
		// Scan a window straddling the first Mahadasha boundary
		now := AddYears(testBirth, 9.9)
		found := sd.Scan(tl, Vt.Antardasha, now, YearsToDuration(0.2))

		var straddle *Vt.DashaSandhi
		for i := range found {
			if found[i].Transition.Equal(tl.Roots[0].End) {
				straddle = &found[i]
			}
		}
		if straddle == nil {
			t.Fatal("no Antardasha junction found at the Mahadasha boundary")
		}
		// The outgoing Antardasha belongs to Venus's tree, the
		// incoming one opens the Sun Mahadasha on Sun itself
		if straddle.ToRuler != Vt.Sun {
			t.Errorf("incoming ruler = %s, want Sun", RulerName(straddle.ToRuler))
		}
	})

	t.Run("A transition exactly at the scan instant is reported", func(t *testing.T) {
		boundary := tl.Roots[0].End
		found := sd.Scan(tl, Vt.Mahadasha, boundary, YearsToDuration(1))
		if len(found) != 1 {
			t.Fatalf("got %d junctions, want 1", len(found))
		}
		if !found[0].Transition.Equal(boundary) {
			t.Errorf("transition %v, want the scan instant %v", found[0].Transition, boundary)
		}
		if found[0].FromRuler != Vt.Venus || found[0].ToRuler != Vt.Sun {
			t.Errorf("junction is %s->%s, want Venus->Sun",
				RulerName(found[0].FromRuler), RulerName(found[0].ToRuler))
		}
	})

	t.Run("No junctions past the end of coverage", func(t *testing.T) {
		_, end := tl.Span()
		found := sd.Scan(tl, Vt.Mahadasha, end.Add(time.Hour), YearsToDuration(50))
		if len(found) != 0 {
			t.Errorf("got %d junctions after coverage, want 0", len(found))
		}
	})

	t.Run("Scanning from before birth starts at the first period", func(t *testing.T) {
		found := sd.Scan(tl, Vt.Mahadasha, testBirth.Add(-24*time.Hour), YearsToDuration(15))
		if len(found) != 1 {
			t.Fatalf("got %d junctions, want 1", len(found))
		}
	})
}

func TestSandhiZone(t *testing.T) {
	tl := makeTestTimeline(t)
	venus, sun := tl.Roots[0], tl.Roots[1]

	t.Run("Fixed mode puts days on each side", func(t *testing.T) {
		sd := NewSandhiDetector(Vt.SandhiPolicy{Mode: Vt.SandhiFixed, FixedDays: 3})
		start, end := sd.Zone(venus, sun)

		want := 3 * 24 * time.Hour
		if got := venus.End.Sub(start); got != want {
			t.Errorf("zone opens %v before transition, want %v", got, want)
		}
		if got := end.Sub(venus.End); got != want {
			t.Errorf("zone closes %v after transition, want %v", got, want)
		}
	})

	t.Run("Fraction mode sizes by the shorter period", func(t *testing.T) {
		sd := NewSandhiDetector(Vt.SandhiPolicy{Mode: Vt.SandhiFraction, Fraction: 0.125})
		start, end := sd.Zone(venus, sun)

		// Sun's 6 years are shorter than Venus's truncated 10
		want := YearsToDuration(6 * 0.125)
		if got := venus.End.Sub(start); got != want {
			t.Errorf("zone opens %v before transition, want %v", got, want)
		}
		if got := end.Sub(venus.End); got != want {
			t.Errorf("zone closes %v after transition, want %v", got, want)
		}
	})
}

func TestIsWithinSandhi(t *testing.T) {
	s := Vt.DashaSandhi{
		Transition:  testBirth,
		SandhiStart: testBirth.Add(-time.Hour),
		SandhiEnd:   testBirth.Add(time.Hour),
	}

	t.Run("Inside the zone", func(t *testing.T) {
		if !IsWithinSandhi(s, testBirth) {
			t.Error("transition instant not within its own zone")
		}
		if !IsWithinSandhi(s, s.SandhiStart) || !IsWithinSandhi(s, s.SandhiEnd) {
			t.Error("zone ends are not inclusive")
		}
	})

	t.Run("Outside the zone", func(t *testing.T) {
		if IsWithinSandhi(s, s.SandhiStart.Add(-time.Minute)) {
			t.Error("instant before the zone reported within")
		}
		if IsWithinSandhi(s, s.SandhiEnd.Add(time.Minute)) {
			t.Error("instant after the zone reported within")
		}
	})
}

func TestPolicyFromEnv(t *testing.T) {
	t.Run("Defaults without environment", func(t *testing.T) {
		got := PolicyFromEnv()
		if got.Mode != Vt.SandhiFraction {
			t.Errorf("default mode = %d, want SandhiFraction", got.Mode)
		}
		assertFloat(t, got.Fraction, 0.125)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("VIMSHOTTARI_SANDHI_MODE", "fixed")
		t.Setenv("VIMSHOTTARI_SANDHI_DAYS", "7.5")

		got := PolicyFromEnv()
		if got.Mode != Vt.SandhiFixed {
			t.Errorf("mode = %d, want SandhiFixed", got.Mode)
		}
		assertFloat(t, got.FixedDays, 7.5)
	})
}
