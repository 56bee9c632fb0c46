package infrastructure

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// runtimeMetrics samples Go runtime gauges after each stage. All tables are
// held in memory, so heap size per stage is the resource worth watching.
type runtimeMetrics struct {
	heapAlloc  metric.Int64Gauge
	heapSys    metric.Int64Gauge
	goroutines metric.Int64Gauge
	gcCount    metric.Int64Gauge
}

// RuntimeStats holds one runtime sample
type RuntimeStats struct {
	HeapAlloc  int64
	HeapSys    int64
	Goroutines int64
	GCCount    int64
}

func newRuntimeMetrics(meter metric.Meter) (*runtimeMetrics, error) {
	heapAlloc, err := meter.Int64Gauge(
		"pipeline_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated and still in use after a stage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	heapSys, err := meter.Int64Gauge(
		"pipeline_heap_sys_bytes",
		metric.WithDescription("Heap memory obtained from the OS after a stage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	goroutines, err := meter.Int64Gauge(
		"pipeline_goroutines",
		metric.WithDescription("Number of goroutines after a stage"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"pipeline_gc_count",
		metric.WithDescription("Completed garbage collection cycles after a stage"),
	)
	if err != nil {
		return nil, err
	}

	return &runtimeMetrics{
		heapAlloc:  heapAlloc,
		heapSys:    heapSys,
		goroutines: goroutines,
		gcCount:    gcCount,
	}, nil
}

// ReadRuntimeStats samples the Go runtime
func ReadRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		HeapAlloc:  int64(mem.HeapAlloc),
		HeapSys:    int64(mem.HeapSys),
		Goroutines: int64(runtime.NumGoroutine()),
		GCCount:    int64(mem.NumGC),
	}
}

func (rm *runtimeMetrics) record(ctx context.Context, stage string) RuntimeStats {
	stats := ReadRuntimeStats()
	attrs := metric.WithAttributes(attribute.String("stage", stage))

	rm.heapAlloc.Record(ctx, stats.HeapAlloc, attrs)
	rm.heapSys.Record(ctx, stats.HeapSys, attrs)
	rm.goroutines.Record(ctx, stats.Goroutines, attrs)
	rm.gcCount.Record(ctx, stats.GCCount, attrs)

	return stats
}
