package osm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/pilab-dev/osm-auth/internal/osm"

// Request operations reported on the duration histogram.
const (
	opTokenExchange = "token_exchange"
	opUserDetails   = "user_details"
)

var requestDuration metric.Float64Histogram

func init() {
	var err error
	requestDuration, err = otel.Meter(meterName).Float64Histogram(
		"osm.client.request.duration",
		metric.WithDescription("Duration of requests to the OSM server."),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}
}

func recordRequest(ctx context.Context, operation string, start time.Time, err error) {
	if requestDuration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
