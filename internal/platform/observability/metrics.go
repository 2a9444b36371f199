package observability

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce     sync.Once
	requestCounter  metric.Int64Counter
	orderCounter    metric.Int64Counter
	checkoutCounter metric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter("github.com/lowkey-merch/storefront/internal/platform/observability")
	requestCounter, _ = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Completed HTTP requests by method, route, and status."))
	orderCounter, _ = meter.Int64Counter("storefront.orders.completed",
		metric.WithDescription("Orders completed through checkout."))
	checkoutCounter, _ = meter.Int64Counter("storefront.checkout.attempts",
		metric.WithDescription("Checkout attempts by outcome."))
}

// RecordRequest increments the HTTP request counter for the completed request.
func RecordRequest(ctx context.Context, method, route string, status int) {
	metricsOnce.Do(initMetrics)
	if requestCounter == nil {
		return
	}
	requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	))
}

// RecordOrderCompleted increments the completed-order counter.
func RecordOrderCompleted(ctx context.Context, provider string) {
	metricsOnce.Do(initMetrics)
	if orderCounter == nil {
		return
	}
	orderCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment.provider", provider),
	))
}

// RecordCheckoutAttempt increments the checkout attempt counter with the outcome.
func RecordCheckoutAttempt(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	if checkoutCounter == nil {
		return
	}
	checkoutCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
