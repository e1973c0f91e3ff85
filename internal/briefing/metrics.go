package briefing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/AmeyaMprojects/pilot-brief/internal/briefing"

// Metrics records which tier produced each summary and how long it took.
type Metrics struct {
	summaries metric.Int64Counter
	duration  metric.Float64Histogram
	meter     metric.Meter
}

// NewMetrics creates the briefing instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	summaries, err := meter.Int64Counter(
		"briefing.summary.total",
		metric.WithDescription("Summaries produced, by tier and annotation"),
		metric.WithUnit("{summary}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"briefing.summary.duration",
		metric.WithDescription("Time to produce a summary across all tiers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{summaries: summaries, duration: duration, meter: meter}, nil
}

// ObserveCoalescer reports the coalescer counters and whether a generation
// is pending on each collection.
func (m *Metrics) ObserveCoalescer(stats func() CoalescerStats) error {
	if m == nil {
		return nil
	}

	coalesced, err := m.meter.Int64ObservableCounter(
		"briefing.summary.coalesced",
		metric.WithDescription("Briefing requests that joined an in-flight generation"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	inFlight, err := m.meter.Int64ObservableGauge(
		"briefing.summary.in_flight",
		metric.WithDescription("1 while a summary generation is pending, else 0"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return err
	}

	_, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(coalesced, s.Coalesced)
		var pending int64
		if s.InFlight {
			pending = 1
		}
		o.ObserveInt64(inFlight, pending)
		return nil
	}, coalesced, inFlight)
	return err
}

func (m *Metrics) recordSummary(ctx context.Context, s Summary, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tier", string(s.Tier)),
		attribute.String("annotation", string(s.Annotation)),
	}
	if s.Cause != "" {
		attrs = append(attrs, attribute.String("cause", string(s.Cause)))
	}

	m.summaries.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs[0]))
}
