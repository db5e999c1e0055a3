package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func Test_EndpointExcluder(t *testing.T) {
	ee := newEndpointExcluder(map[string]struct{}{"/v1/liveness": {}}, 1)

	tests := []struct {
		name  string
		attrs []attribute.KeyValue
		want  sdktrace.SamplingDecision
	}{
		{
			name:  "excluded_route",
			attrs: []attribute.KeyValue{attribute.String("url.path", "/v1/liveness")},
			want:  sdktrace.Drop,
		},
		{
			name:  "sampled_route",
			attrs: []attribute.KeyValue{attribute.String("http.route", "/v1/signup")},
			want:  sdktrace.RecordAndSample,
		},
		{
			name:  "query_is_part_of_the_endpoint",
			attrs: []attribute.KeyValue{attribute.String("url.path", "/v1/liveness"), attribute.String("url.query", "x=1")},
			want:  sdktrace.RecordAndSample,
		},
	}

	for _, ts := range tests {
		t.Run(ts.name, func(t *testing.T) {
			params := sdktrace.SamplingParameters{
				ParentContext: context.Background(),
				TraceID:       trace.TraceID{1},
				Name:          "http.request",
				Attributes:    ts.attrs,
			}

			got := ee.ShouldSample(params).Decision
			if got != ts.want {
				t.Errorf("decision=%v, got=%v", ts.want, got)
			}
		})
	}
}

func Test_TraceIDContext(t *testing.T) {
	ctx := context.Background()

	if got := GetTraceID(ctx); got != defaultTraceID {
		t.Errorf("traceID=%s, got=%s", defaultTraceID, got)
	}

	ctx = SetTraceID(ctx, "abc")
	if got := GetTraceID(ctx); got != "abc" {
		t.Errorf("traceID=%s, got=%s", "abc", got)
	}
}

func Test_SetupWithoutHost(t *testing.T) {
	teardown, err := SetupOTelSDK(Config{ServiceName: "telemetry_test"})
	if err != nil {
		t.Fatalf("setupOTelSDK: %s", err)
	}
	defer teardown(context.Background())

	_, span := Tracer("telemetry_test").Start(context.Background(), "noop")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("expected a noop span when no host is configured")
	}
}
