package vimshottari_test

import (
	"testing"
	"time"

	Md "github.com/maroda/vimshottari/display"
	Vs "github.com/maroda/vimshottari/server"
)

func TestView_GetChainFeed(t *testing.T) {
	view := makeTestView(t)

	t.Run("One feed per chart with the full chain", func(t *testing.T) {
		now := Vs.AddYears(testBirth, 42)
		feeds := view.GetChainFeed(now)

		if len(feeds) != 1 {
			t.Fatalf("got %d feeds, want 1", len(feeds))
		}
		feed := feeds[0]
		if feed.Chart != "craque" {
			t.Errorf("chart = %q, want craque", feed.Chart)
		}
		if feed.At != now.Format(time.RFC3339) {
			t.Errorf("at = %q, want %q", feed.At, now.Format(time.RFC3339))
		}
		if len(feed.Chain) != 6 {
			t.Errorf("chain length = %d, want 6", len(feed.Chain))
		}
	})

	t.Run("Out of coverage keeps the chart with an empty chain", func(t *testing.T) {
		feeds := view.GetChainFeed(testBirth.Add(-time.Hour))

		if len(feeds) != 1 {
			t.Fatalf("got %d feeds, want 1", len(feeds))
		}
		if len(feeds[0].Chain) != 0 {
			t.Errorf("chain length = %d, want 0", len(feeds[0].Chain))
		}
	})

	t.Run("Flags an instant inside a junction zone", func(t *testing.T) {
		// The first Mahadasha boundary is at birth+10y, scan at the
		// Antardasha level finds it, the zone spans the instant itself
		boundary := view.Charts.Charts[0].Roots[0].End
		feeds := view.GetChainFeed(boundary.Add(-time.Hour))

		if len(feeds) != 1 {
			t.Fatalf("got %d feeds, want 1", len(feeds))
		}
		if len(feeds[0].Upcoming) == 0 {
			t.Fatal("no upcoming junctions near the boundary")
		}
		if !feeds[0].InSandhi {
			t.Error("instant an hour before the boundary is not flagged in-sandhi")
		}
	})

	t.Run("Empty view answers with an empty feed", func(t *testing.T) {
		empty := &Md.View{}
		if got := empty.GetChainFeed(time.Now()); len(got) != 0 {
			t.Errorf("got %d feeds from an empty view, want 0", len(got))
		}
	})
}
