package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RegisterRuntimeMetrics exposes goroutine, heap and uptime gauges.
// Values are read from the runtime on every collection.
func RegisterRuntimeMetrics(meter metric.Meter, startTime time.Time) error {
	goroutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return err
	}

	heapAlloc, err := meter.Int64ObservableGauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Heap bytes in use"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heapAlloc, int64(mem.HeapAlloc))
		o.ObserveFloat64(uptime, time.Since(startTime).Seconds())
		return nil
	}, goroutines, heapAlloc, uptime)
	return err
}
