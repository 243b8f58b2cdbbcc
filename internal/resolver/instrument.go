package resolver

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tbourn/go-insta-resolver/internal/resolver"

var (
	// resolutions counts resolver calls by backend and outcome, where outcome
	// is "ok" or the failure Kind.
	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_resolutions_total",
			Help: "Total number of shortcode resolutions by backend and outcome.",
		},
		[]string{"backend", "outcome"},
	)

	// resolutionLat records upstream latency per backend.
	resolutionLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_resolution_duration_seconds",
			Help:    "Duration of shortcode resolutions in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(resolutions, resolutionLat)
}

type instrumented struct {
	next    VideoResolver
	backend string
}

// Instrument wraps next so every call is traced as a "resolver.resolve" span
// and counted in video_resolutions_total and
// video_resolution_duration_seconds under the given backend label.
func Instrument(next VideoResolver, backend string) VideoResolver {
	return &instrumented{next: next, backend: backend}
}

func (i *instrumented) Resolve(ctx context.Context, shortcode string) (videoURL string, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "resolver.resolve", trace.WithAttributes(
		attribute.String("resolver.backend", i.backend),
		attribute.String("instagram.shortcode", shortcode),
	))
	start := time.Now()
	defer func() {
		resolutionLat.WithLabelValues(i.backend).Observe(time.Since(start).Seconds())
		resolutions.WithLabelValues(i.backend, outcome(err)).Inc()
		endSpan(span, err)
	}()

	return i.next.Resolve(ctx, shortcode)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return string(KindUpstream)
}

func endSpan(span trace.Span, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if k := KindOf(err); k != "" {
			span.SetAttributes(attribute.String("resolver.error_kind", string(k)))
		}
		return
	}
	span.SetStatus(codes.Ok, "")
}
