package vimshottari

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewStatsInternal(t *testing.T) {
	s := NewStatsInternal()

	t.Run("Counters record with labels", func(t *testing.T) {
		s.RecWWW("200", "GET")
		s.RecWWW("200", "GET")
		s.RecWWW("404", "GET")
		s.RecQuery("Antardasha")
		s.RecSandhi("Mahadasha")

		if got := testutil.ToFloat64(s.WWWCount.WithLabelValues("200", "GET")); got != 2 {
			t.Errorf("got %g requests counted, want 2", got)
		}
		if got := testutil.ToFloat64(s.QueryCount.WithLabelValues("Antardasha")); got != 1 {
			t.Errorf("got %g queries counted, want 1", got)
		}
		if got := testutil.ToFloat64(s.SandhiCount.WithLabelValues("Mahadasha")); got != 1 {
			t.Errorf("got %g junctions counted, want 1", got)
		}
	})

	t.Run("Timers observe", func(t *testing.T) {
		s.RecBuildTimer(0.002)
		s.RecScanTimer(0.014)

		if got := testutil.CollectAndCount(s.BuildTimer); got != 1 {
			t.Errorf("got %d build metrics, want 1", got)
		}
	})

	t.Run("Handler serves the registry", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/metrics", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, r)

		if w.Code != 200 {
			t.Fatalf("got status %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "vimshottari_http_requests_total") {
			t.Error("exported metrics missing the request counter")
		}
	})
}
