package vimshottari

import (
	"errors"
	"testing"

	Vt "github.com/maroda/vimshottari/types"
)

func TestSequenceWeights(t *testing.T) {
	t.Run("Nine weights sum to the full cycle", func(t *testing.T) {
		total := 0
		for _, e := range Sequence {
			total += e.Years
		}
		if total != FullCycleYears {
			t.Errorf("Sequence weights sum = %d, want %d", total, FullCycleYears)
		}
	})

	t.Run("WeightOf matches the table", func(t *testing.T) {
		for _, e := range Sequence {
			if got := WeightOf(e.Ruler); got != e.Years {
				t.Errorf("WeightOf(%s) = %d, want %d", RulerName(e.Ruler), got, e.Years)
			}
		}
	})
}

func TestRulerAfter(t *testing.T) {
	t.Run("Walks the ring in table order", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			got := RulerAfter(Sequence[i].Ruler)
			want := Sequence[i+1].Ruler
			if got != want {
				t.Errorf("RulerAfter(%s) = %s, want %s",
					RulerName(Sequence[i].Ruler), RulerName(got), RulerName(want))
			}
		}
	})

	t.Run("Wraps from Mercury to Ketu", func(t *testing.T) {
		if got := RulerAfter(Vt.Mercury); got != Vt.Ketu {
			t.Errorf("RulerAfter(Mercury) = %s, want Ketu", RulerName(got))
		}
	})
}

func TestRulerAt(t *testing.T) {
	t.Run("Zeroth successor is the ruler itself", func(t *testing.T) {
		if got := RulerAt(Vt.Saturn, 0); got != Vt.Saturn {
			t.Errorf("RulerAt(Saturn, 0) = %s, want Saturn", RulerName(got))
		}
	})

	t.Run("Ninth successor is a full loop", func(t *testing.T) {
		if got := RulerAt(Vt.Moon, 9); got != Vt.Moon {
			t.Errorf("RulerAt(Moon, 9) = %s, want Moon", RulerName(got))
		}
	})
}

func TestParseRuler(t *testing.T) {
	t.Run("Round-trips every name", func(t *testing.T) {
		for _, e := range Sequence {
			got, err := ParseRuler(RulerName(e.Ruler))
			if err != nil {
				t.Fatalf("ParseRuler(%s) error: %v", RulerName(e.Ruler), err)
			}
			if got != e.Ruler {
				t.Errorf("ParseRuler(%s) = %d, want %d", RulerName(e.Ruler), got, e.Ruler)
			}
		}
	})

	t.Run("Is case-insensitive", func(t *testing.T) {
		got, err := ParseRuler("venus")
		if err != nil {
			t.Fatalf("ParseRuler(venus) error: %v", err)
		}
		if got != Vt.Venus {
			t.Errorf("ParseRuler(venus) = %s, want Venus", RulerName(got))
		}
	})

	t.Run("Rejects unknown names", func(t *testing.T) {
		_, err := ParseRuler("Pluto")
		if !errors.Is(err, ErrUnknownRuler) {
			t.Errorf("ParseRuler(Pluto) error = %v, want ErrUnknownRuler", err)
		}
	})
}

func TestParseLevel(t *testing.T) {
	t.Run("Accepts depth digits", func(t *testing.T) {
		got, err := ParseLevel("3")
		assertError(t, err, nil)
		if got != Vt.Sookshmadasha {
			t.Errorf("ParseLevel(3) = %s, want Sookshmadasha", LevelName(got))
		}
	})

	t.Run("Accepts level names", func(t *testing.T) {
		got, err := ParseLevel("antardasha")
		assertError(t, err, nil)
		if got != Vt.Antardasha {
			t.Errorf("ParseLevel(antardasha) = %s, want Antardasha", LevelName(got))
		}
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		_, err := ParseLevel("7")
		if !errors.Is(err, ErrUnknownLevel) {
			t.Errorf("ParseLevel(7) error = %v, want ErrUnknownLevel", err)
		}
	})
}
