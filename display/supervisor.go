package vimshottari

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	Vs "github.com/maroda/vimshottari/server"
)

// ScanSupervisor re-scans every chart for upcoming junctions on a
// ticker, records them, and hands new ones to the output plugin.
// It is the only writer of its seen-set, the charts stay read-only.
type ScanSupervisor struct {
	View     *View
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup
	MU       sync.Mutex
	seen     map[string]struct{} // junctions already reported
}

// NewScanSupervisor is a wrapper around the View that manages the scan goroutine
// They are strongly coupled, one knows about the other
func (v *View) NewScanSupervisor() *ScanSupervisor {
	ss := &ScanSupervisor{
		View: v,
		seen: make(map[string]struct{}),
	}
	v.Supervisor = ss
	return ss
}

// ReloadConfig rebuilds the charts in place and restarts scanning.
// The output plugin attached to the ChartSet survives the swap.
func (v *View) ReloadConfig(c []Vs.ConfigFile) error {
	v.Supervisor.Stop()
	defer v.Supervisor.Start()

	cs, err := buildCharts(c, v.Stats)
	if err != nil {
		// Keep serving the old charts rather than none
		return err
	}

	v.Charts.MU.Lock()
	v.Charts.Charts = cs.Charts
	v.Charts.MU.Unlock()

	return nil
}

// Start the ScanSupervisor
// The interval comes from VIMSHOTTARI_SCAN_INTERVAL (seconds, default 60)
func (s *ScanSupervisor) Start() {
	interval := Vs.FillEnvVarInt("VIMSHOTTARI_SCAN_INTERVAL", 60)

	s.StopChan = make(chan struct{})
	s.Ticker = time.NewTicker(time.Duration(interval) * time.Second)

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		defer s.Ticker.Stop()

		for {
			select {
			case <-s.Ticker.C:
				s.ScanAll(time.Now())
			case <-s.StopChan:
				return
			}
		}
	}()
}

// Stop the ScanSupervisor
func (s *ScanSupervisor) Stop() {
	if s.StopChan != nil {
		close(s.StopChan)
		s.WG.Wait()
	}
}

// Restart the ScanSupervisor
func (s *ScanSupervisor) Restart() {
	s.Stop()
	s.Start()
}

// ScanAll runs one pass over every chart at the View's level and
// window. A junction is reported once: the dedupe key is the chart,
// the level, and the exact transition instant, which is stable
// because boundaries are shared instants by construction.
func (s *ScanSupervisor) ScanAll(now time.Time) {
	start := time.Now()
	v := s.View

	v.Charts.MU.RLock()
	charts := v.Charts.Charts
	output := v.Charts.Output
	v.Charts.MU.RUnlock()

	for _, tl := range charts {
		for _, event := range v.Detector.Scan(tl, v.Level, now, v.Window) {
			key := fmt.Sprintf("%s/%d/%d", event.ChartID, event.Level, event.Transition.UnixNano())

			s.MU.Lock()
			_, dup := s.seen[key]
			if !dup {
				s.seen[key] = struct{}{}
			}
			s.MU.Unlock()
			if dup {
				continue
			}

			v.Stats.RecSandhi(Vs.LevelName(event.Level))
			slog.Info("Upcoming sandhi",
				slog.String("chart", event.ChartID),
				slog.String("level", Vs.LevelName(event.Level)),
				slog.String("from", Vs.RulerName(event.FromRuler)),
				slog.String("to", Vs.RulerName(event.ToRuler)),
				slog.Time("transition", event.Transition))

			if output != nil {
				if err := output.WriteSandhi(&event); err != nil {
					// Only log the error, keep scanning otherwise
					slog.Error("Failed to write sandhi", slog.Any("Error", err))
				}
			}
		}
	}

	v.Stats.RecScanTimer(time.Since(start).Seconds())
}
