package vimshottari

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	Vs "github.com/maroda/vimshottari/server"
	Vt "github.com/maroda/vimshottari/types"
)

// ChainFeed is one chart's live state pushed over the websocket:
// the full active chain plus every junction inside the lookahead.
type ChainFeed struct {
	Chart    string       `json:"chart"`
	At       string       `json:"at"`
	Chain    []PeriodData `json:"chain"`
	Upcoming []SandhiData `json:"upcoming"`
	InSandhi bool         `json:"inSandhi"` // inside any upcoming zone right now
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Push the feed periodically. Chains move on the order of
	// minutes at the finest level, one second is plenty.
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		feed := v.GetChainFeed(time.Now())
		if err := conn.WriteJSON(feed); err != nil {
			return // Connection closed
		}
	}
}

// GetChainFeed assembles the feed for every chart at one instant.
// A query instant outside a chart's coverage produces an entry
// with an empty chain, the chart is not skipped.
func (v *View) GetChainFeed(now time.Time) []ChainFeed {
	// Make sure we're not nil
	if v.Charts == nil || v.Charts.Charts == nil {
		return []ChainFeed{}
	}

	v.Charts.MU.RLock()
	defer v.Charts.MU.RUnlock()

	feeds := make([]ChainFeed, 0, len(v.Charts.Charts))

	for _, tl := range v.Charts.Charts {
		feed := ChainFeed{
			Chart:    tl.ID,
			At:       now.Format(time.RFC3339),
			Chain:    []PeriodData{},
			Upcoming: []SandhiData{},
		}

		if chain, ok := tl.Chain(now, v.chainDepth()); ok {
			for _, p := range chain {
				feed.Chain = append(feed.Chain, periodData(p, now))
			}
		}

		for _, s := range v.Detector.Scan(tl, v.Level, now, v.Window) {
			feed.Upcoming = append(feed.Upcoming, sandhiData(s, now))
			if Vs.IsWithinSandhi(s, now) {
				feed.InSandhi = true
			}
		}

		feeds = append(feeds, feed)
	}
	return feeds
}

// chainDepth is how deep the live feed descends. The full six
// levels cost six nine-way picks, there is no reason to go coarser.
func (v *View) chainDepth() Vt.PeriodLevel {
	return Vt.Dehadasha
}
