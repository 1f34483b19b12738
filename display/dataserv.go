package vimshottari

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	Vo "github.com/maroda/vimshottari/obvy"
	Vs "github.com/maroda/vimshottari/server"
	Vt "github.com/maroda/vimshottari/types"
)

// View is the host-side surface over the built charts.
// It owns nothing in the engine: timelines are immutable and the
// handlers only read, so no handler takes the View lock for data.
type View struct {
	MU         sync.Mutex         // State lock for view settings
	Charts     *Vs.ChartSet       // the engine aggregate
	Stats      *Vo.StatsInternal  // Internal status for prometheus
	Detector   *Vs.SandhiDetector // zone policy holder
	Level      Vt.PeriodLevel     // scan level for the supervisor and /ws
	Window     time.Duration      // lookahead for the supervisor and /ws
	Supervisor *ScanSupervisor    // background junction scanner
	server     *http.Server       // data server
}

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket chain/sandhi feed
// - Version for programmatic use
// - Chart, chain, period and sandhi queries
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	// API handlers must be registered on the subrouter itself:
	// routes on the root router match first and never pass
	// through the subrouter's middleware.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler)
	api.HandleFunc("/charts", v.ChartsHandler)
	api.HandleFunc("/chain", v.ChainHandler)
	api.HandleFunc("/periods", v.PeriodsHandler)
	api.HandleFunc("/sandhi", v.SandhiHandler)

	return r
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// ChartData is the list entry for one configured chart
type ChartData struct {
	ID            string  `json:"id"`
	Birth         string  `json:"birth"`
	BirthRuler    string  `json:"birthRuler"`
	Balance       float64 `json:"balance"`
	CoverageYears float64 `json:"coverageYears"`
}

func (v *View) ChartsHandler(w http.ResponseWriter, r *http.Request) {
	v.Charts.MU.RLock()
	defer v.Charts.MU.RUnlock()

	var all []ChartData
	for _, tl := range v.Charts.Charts {
		all = append(all, ChartData{
			ID:            tl.ID,
			Birth:         tl.Birth.Format(time.RFC3339),
			BirthRuler:    Vs.RulerName(tl.BirthRuler),
			Balance:       tl.Balance,
			CoverageYears: Vs.FloatPrecise(tl.CoverageYears(), 6),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// PeriodData is the wire form of one Period
type PeriodData struct {
	Level     string  `json:"level"`
	Ruler     string  `json:"ruler"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Years     float64 `json:"years"`
	Progress  float64 `json:"progress,omitempty"`
	Remaining string  `json:"remaining,omitempty"`
}

// periodData converts a Period, filling progress/remaining
// only when the query instant falls inside it.
func periodData(p *Vs.Period, at time.Time) PeriodData {
	pd := PeriodData{
		Level: Vs.LevelName(p.Level),
		Ruler: Vs.RulerName(p.Ruler),
		Start: p.Start.Format(time.RFC3339),
		End:   p.End.Format(time.RFC3339),
		Years: Vs.FloatPrecise(p.Years, 9),
	}
	if p.Contains(at) {
		pd.Progress = Vs.FloatPrecise(p.ProgressAt(at), 6)
		pd.Remaining = p.RemainingAt(at).String()
	}
	return pd
}

// lookupChart pulls ?chart= and resolves it, writing the HTTP
// error itself so handlers can just return on nil
func (v *View) lookupChart(w http.ResponseWriter, r *http.Request) *Vs.Timeline {
	id := r.URL.Query().Get("chart")
	tl, ok := v.Charts.Chart(id)
	if !ok {
		http.Error(w, "unknown chart", http.StatusNotFound)
		return nil
	}
	return tl
}

// queryInstant pulls ?at= (RFC3339), defaulting to the server's now.
// The engine itself never reads the clock, "now" is always an input.
func queryInstant(r *http.Request) (time.Time, error) {
	at := r.URL.Query().Get("at")
	if at == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, at)
}

// queryLevel pulls ?level= (depth or name), with a caller default
func queryLevel(r *http.Request, def Vt.PeriodLevel) (Vt.PeriodLevel, error) {
	l := r.URL.Query().Get("level")
	if l == "" {
		return def, nil
	}
	return Vs.ParseLevel(l)
}

// ChainHandler answers the full active chain at an instant:
// ?chart= &at= &level= (defaults: now, Dehadasha)
func (v *View) ChainHandler(w http.ResponseWriter, r *http.Request) {
	tl := v.lookupChart(w, r)
	if tl == nil {
		return
	}

	at, err := queryInstant(r)
	if err != nil {
		http.Error(w, "invalid at instant", http.StatusBadRequest)
		return
	}

	level, err := queryLevel(r, Vt.Dehadasha)
	if err != nil {
		http.Error(w, "invalid level", http.StatusBadRequest)
		return
	}

	v.Stats.RecQuery(Vs.LevelName(level))

	chain, ok := tl.Chain(at, level)
	if !ok {
		// Out of coverage is an empty answer, not a failure
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]PeriodData{})
		return
	}

	out := make([]PeriodData, 0, len(chain))
	for _, p := range chain {
		out = append(out, periodData(p, at))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// PeriodsHandler lists the flattened sequence at a level:
// ?chart= &level= (default Mahadasha). Levels below
// Pratyantardasha would expand the entire tree, so they 400.
func (v *View) PeriodsHandler(w http.ResponseWriter, r *http.Request) {
	tl := v.lookupChart(w, r)
	if tl == nil {
		return
	}

	level, err := queryLevel(r, Vt.Mahadasha)
	if err != nil {
		http.Error(w, "invalid level", http.StatusBadRequest)
		return
	}
	if level > Vt.Pratyantardasha {
		http.Error(w, "level too fine for listing", http.StatusBadRequest)
		return
	}

	v.Stats.RecQuery(Vs.LevelName(level))

	var out []PeriodData
	for _, p := range tl.Periods(level) {
		out = append(out, periodData(p, time.Time{}))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// SandhiData is the wire form of one junction
type SandhiData struct {
	Chart       string `json:"chart"`
	Level       string `json:"level"`
	FromRuler   string `json:"fromRuler"`
	ToRuler     string `json:"toRuler"`
	Transition  string `json:"transition"`
	SandhiStart string `json:"sandhiStart"`
	SandhiEnd   string `json:"sandhiEnd"`
	Within      bool   `json:"within"`
}

func sandhiData(s Vt.DashaSandhi, now time.Time) SandhiData {
	return SandhiData{
		Chart:       s.ChartID,
		Level:       Vs.LevelName(s.Level),
		FromRuler:   Vs.RulerName(s.FromRuler),
		ToRuler:     Vs.RulerName(s.ToRuler),
		Transition:  s.Transition.Format(time.RFC3339),
		SandhiStart: s.SandhiStart.Format(time.RFC3339),
		SandhiEnd:   s.SandhiEnd.Format(time.RFC3339),
		Within:      Vs.IsWithinSandhi(s, now),
	}
}

// SandhiHandler lists upcoming junctions:
// ?chart= &at= &level= &window= (days, default 90)
func (v *View) SandhiHandler(w http.ResponseWriter, r *http.Request) {
	tl := v.lookupChart(w, r)
	if tl == nil {
		return
	}

	at, err := queryInstant(r)
	if err != nil {
		http.Error(w, "invalid at instant", http.StatusBadRequest)
		return
	}

	level, err := queryLevel(r, v.Level)
	if err != nil {
		http.Error(w, "invalid level", http.StatusBadRequest)
		return
	}

	window := v.Window
	if d := r.URL.Query().Get("window"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil || days < 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	out := []SandhiData{}
	for _, s := range v.Detector.Scan(tl, level, at, window) {
		out = append(out, sandhiData(s, at))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

// NewView builds the serving surface over a ChartSet.
// Scan level and lookahead window come from the environment:
// VIMSHOTTARI_SCAN_LEVEL (default Antardasha),
// VIMSHOTTARI_WINDOW_DAYS (default 90).
func NewView(cs *Vs.ChartSet) (*View, error) {
	if cs == nil || cs.Charts == nil {
		slog.Error("Could not get a ChartSet for serving")
		return nil, errors.New("chart set not found")
	}

	level := Vt.Antardasha
	if l := FillEnvLevel("VIMSHOTTARI_SCAN_LEVEL"); l != nil {
		level = *l
	}
	windowDays := Vs.FillEnvVarInt("VIMSHOTTARI_WINDOW_DAYS", 90)

	view := &View{
		Charts:   cs,
		Stats:    Vo.NewStatsInternal(),
		Detector: Vs.NewSandhiDetector(Vs.PolicyFromEnv()),
		Level:    level,
		Window:   time.Duration(windowDays) * 24 * time.Hour,
	}

	return view, nil
}

// FillEnvLevel reads a PeriodLevel env var, nil when unset or bad
func FillEnvLevel(ev string) *Vt.PeriodLevel {
	value := Vs.FillEnvVar(ev)
	if value == "ENOENT" {
		return nil
	}
	l, err := Vs.ParseLevel(value)
	if err != nil {
		slog.Error("Could not parse level env var, using default",
			slog.String("var", ev), slog.Any("Error", err))
		return nil
	}
	return &l
}

// BuildView constructs every chart from config plus the serving
// surface over them. The registry does not exist until the View
// does, so the initial build is timed here and recorded after,
// rebuilds on reload go through buildCharts with stats attached.
func BuildView(cf []Vs.ConfigFile) (*View, error) {
	start := time.Now()

	cs, err := buildCharts(cf, nil)
	if err != nil {
		return nil, err
	}

	view, err := NewView(cs)
	if err != nil {
		return nil, err
	}

	view.Stats.RecBuildTimer(time.Since(start).Seconds())
	return view, nil
}

// StartWeb builds every chart from config and serves the data API.
// Construction is CPU-bound, so it runs before the listener opens.
func StartWeb(cf []Vs.ConfigFile) error {
	view, err := BuildView(cf)
	if err != nil {
		slog.Error("Could not build view", slog.Any("Error", err))
		return err
	}

	// Optional alert sink from env
	if err := InitBadgerOutput(view); err != nil {
		slog.Error("Could not init output plugin", slog.Any("Error", err))
		return err
	}

	// Background junction scanning
	view.NewScanSupervisor().Start()

	addr := ":8090"
	if p := Vs.FillEnvVar("VIMSHOTTARI_ADDR"); p != "ENOENT" {
		addr = p
	}

	view.server = &http.Server{
		Addr:    addr,
		Handler: otelhttp.NewHandler(view.SetupMux(), "vimshottari"),
	}

	slog.Info("Starting Vimshottari data server...", slog.String("Port", addr))
	if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start data server", slog.Any("Error", err))
		return err
	}

	return nil
}

// buildCharts is the one construction path, shared by startup and
// reload. Stats may be nil on first build (the registry does not
// exist until the View does).
func buildCharts(cf []Vs.ConfigFile, stats *Vo.StatsInternal) (*Vs.ChartSet, error) {
	start := time.Now()

	cs, err := Vs.NewChartSetFromConfig(cf)
	if err != nil {
		slog.Error("Failed to build charts", slog.Any("Error", err))
		return nil, err
	}

	if stats != nil {
		stats.RecBuildTimer(time.Since(start).Seconds())
	}
	return cs, nil
}
