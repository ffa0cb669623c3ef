package metrics

import (
	"fmt"
	"io"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/tbpush/tbpush/internal/engine"
)

// WriteSummary renders the final run summary in Prometheus text exposition
// format, suitable for node-exporter textfile collection. Families:
//
//	tbpush_rounds_total{result="success"|"failure"}
//	tbpush_run_completed_timestamp_seconds
func WriteSummary(w io.Writer, sum engine.Summary, now time.Time) error {
	families := []*dto.MetricFamily{
		{
			Name: proto.String("tbpush_rounds_total"),
			Help: proto.String("Publish rounds attempted in the completed run, by result."),
			Type: dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{
				counter("result", "success", float64(sum.Succeeded)),
				counter("result", "failure", float64(sum.Failed)),
			},
		},
		{
			Name: proto.String("tbpush_run_completed_timestamp_seconds"),
			Help: proto.String("Unix time the run finished."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{
				{Gauge: &dto.Gauge{Value: proto.Float64(float64(now.Unix()))}},
			},
		},
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func counter(label, value string, v float64) *dto.Metric {
	return &dto.Metric{
		Label: []*dto.LabelPair{
			{Name: proto.String(label), Value: proto.String(value)},
		},
		Counter: &dto.Counter{Value: proto.Float64(v)},
	}
}
