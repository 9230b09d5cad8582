// Package observe holds the service's OpenTelemetry metric instruments and the
// Prometheus bridge that exposes them on /metrics.
//
// Tests should build their own instance with NewMetrics and an sdkmetric
// ManualReader instead of relying on the global provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/yoockh/interviewme"

const (
	KindSpeech = "speech"
	KindFacial = "facial"
)

// Metrics is safe for concurrent use.
type Metrics struct {
	// SpeechAnalyses counts transcript analyses. Attribute: source (text|audio|api|cli).
	SpeechAnalyses metric.Int64Counter

	// FacialFrames counts frames by result (detected|absent).
	FacialFrames metric.Int64Counter

	// AnalysisDuration is wall time of one analysis call, by kind.
	AnalysisDuration metric.Float64Histogram

	// WorkerJobs counts answer-audio jobs by status (done|failed).
	WorkerJobs metric.Int64Counter

	// ActiveFrameStreams is the number of open frame websockets.
	ActiveFrameStreams metric.Int64UpDownCounter

	// HTTPRequestDuration by method, route and status class.
	HTTPRequestDuration metric.Float64Histogram
}

// analysis runs in microseconds to low milliseconds
var analysisBuckets = []float64{
	0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.033, 0.1,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SpeechAnalyses, err = m.Int64Counter("interviewme.speech.analyses",
		metric.WithDescription("Transcript analyses by source."),
	); err != nil {
		return nil, err
	}
	if met.FacialFrames, err = m.Int64Counter("interviewme.facial.frames",
		metric.WithDescription("Landmark frames processed by result."),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("interviewme.analysis.duration",
		metric.WithDescription("Latency of a single analysis call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(analysisBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WorkerJobs, err = m.Int64Counter("interviewme.worker.jobs",
		metric.WithDescription("Answer-audio jobs by final status."),
	); err != nil {
		return nil, err
	}
	if met.ActiveFrameStreams, err = m.Int64UpDownCounter("interviewme.frame_streams.active",
		metric.WithDescription("Open landmark frame websockets."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("interviewme.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics lazily builds a Metrics on the global meter provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func (m *Metrics) RecordSpeech(ctx context.Context, source string, seconds float64) {
	m.SpeechAnalyses.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	m.AnalysisDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("kind", KindSpeech)))
}

func (m *Metrics) RecordFrame(ctx context.Context, detected bool, seconds float64) {
	result := "absent"
	if detected {
		result = "detected"
	}
	m.FacialFrames.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	m.AnalysisDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("kind", KindFacial)))
}

func (m *Metrics) RecordWorkerJob(ctx context.Context, status string) {
	m.WorkerJobs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
