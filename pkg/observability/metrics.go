// Package observability emits operational metrics to CloudWatch.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes counters and latencies under a single namespace.
// A nil *Metrics is valid and drops every emission, so callers never need to
// guard their instrumentation.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewMetrics creates a metrics publisher. Pass a nil client to disable
// emission (e.g. in development or tests).
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	if client == nil {
		return nil
	}
	return &Metrics{client: client, namespace: namespace}
}

// IncrementCounter emits a count-of-one metric.
func (m *Metrics) IncrementCounter(ctx context.Context, name string, dimensions map[string]string) {
	if m == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dimensions),
	})
}

// RecordLatency emits a duration metric in milliseconds.
func (m *Metrics) RecordLatency(ctx context.Context, name string, d time.Duration, dimensions map[string]string) {
	if m == nil {
		return
	}
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: toDimensions(dimensions),
	})
}

// put publishes a single datum. Emission failures are ignored: metrics are
// best-effort and must never fail a request.
func (m *Metrics) put(ctx context.Context, datum types.MetricDatum) {
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}

func toDimensions(dims map[string]string) []types.Dimension {
	if len(dims) == 0 {
		return nil
	}
	out := make([]types.Dimension, 0, len(dims))
	for k, v := range dims {
		out = append(out, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}
	return out
}
