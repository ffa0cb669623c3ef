package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/common/expfmt"

	"github.com/tbpush/tbpush/internal/engine"
)

func TestWriteSummary_ParsesBack(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	sum := engine.Summary{Attempted: 5, Succeeded: 3, Failed: 2}

	if err := WriteSummary(&buf, sum, now); err != nil {
		t.Fatalf("WriteSummary(): %v", err)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("output does not parse as Prometheus text: %v\n%s", err, buf.String())
	}

	rounds, ok := mfs["tbpush_rounds_total"]
	if !ok {
		t.Fatal("tbpush_rounds_total missing from output")
	}
	byResult := map[string]float64{}
	for _, m := range rounds.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "result" {
				byResult[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if byResult["success"] != 3 {
		t.Errorf("success rounds: got %v, want 3", byResult["success"])
	}
	if byResult["failure"] != 2 {
		t.Errorf("failure rounds: got %v, want 2", byResult["failure"])
	}

	ts, ok := mfs["tbpush_run_completed_timestamp_seconds"]
	if !ok {
		t.Fatal("tbpush_run_completed_timestamp_seconds missing from output")
	}
	if got := ts.GetMetric()[0].GetGauge().GetValue(); got != float64(now.Unix()) {
		t.Errorf("completion timestamp: got %v, want %v", got, now.Unix())
	}
}

func TestWriteSummary_ZeroRun(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, engine.Summary{}, time.Unix(0, 0)); err != nil {
		t.Fatalf("WriteSummary() on empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), `tbpush_rounds_total{result="success"} 0`) {
		t.Errorf("zero counters should still be emitted:\n%s", buf.String())
	}
}
