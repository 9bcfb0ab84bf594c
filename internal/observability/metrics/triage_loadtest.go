//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
)

// appendLoadtestLabels tags metrics with the load test run carried in
// request baggage so runs can be separated in dashboards.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	bag := baggage.FromContext(ctx)
	if run := bag.Member("loadtest_run").Value(); run != "" {
		attrs = append(attrs, attribute.String("loadtest_run", run))
	}
	if scenario := bag.Member("loadtest_scenario").Value(); scenario != "" {
		attrs = append(attrs, attribute.String("loadtest_scenario", scenario))
	}
	return attrs
}
