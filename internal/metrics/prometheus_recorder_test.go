package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("content_loaded", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("content_loaded", ResultSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncPagesRendered(3)
	pr.IncThemeFetch("zip", true)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
	if got := testutil.ToFloat64(pr.pages); got != 3 {
		t.Fatalf("pages rendered = %v, want 3", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(OutcomeFailed)

	srv := httptest.NewServer(pr.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `ezcv_build_outcomes_total{outcome="failed"} 1`) {
		t.Fatalf("missing build outcome in scrape:\n%s", body)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.IncBuildOutcome(OutcomeCanceled)
	r.IncPagesRendered(1)
}
