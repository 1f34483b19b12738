package plugin

/*

	The Adapter sits aside /vimshottari/
	Contains core interfaces for Plugin

*/

import (
	"time"

	Vt "github.com/maroda/vimshottari/types"
)

// AlertSink is a place for detected sandhi to go,
// one-by-one or in batches if supported by the output type.
// Sandhi are derived values, a sink is history, never the source
// of truth: the period tree can always recompute them.
type AlertSink interface {
	WriteSandhi(s *Vt.DashaSandhi) error                          // Write a single junction event
	WriteBatch(ss []*Vt.DashaSandhi) error                        // Write batches of junction events
	QueryRange(start, end time.Time) ([]*Vt.DashaSandhi, error)  // Time range query tool
	Flush() error                                                 // Flush any buffered data
	Close() error                                                 // Close the sink and release resources
	Type() string                                                 // ID for output
}
