package metrics

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var prefix = os.Getenv("HUFFPACK_METRICS_PREFIX")

// operations by outcome
var TotalOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "total_operations",
		Help: "Total number of compress and decompress operations",
	},
	[]string{"operation", "algorithm", "status"},
)

var OperationDurations = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    prefix + "operation_durations",
		Help:    "Seconds spent per compress or decompress operation",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	},
	[]string{"operation", "algorithm"},
)

// bytes read and written by the codec
var ProcessedBytes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "processed_bytes",
		Help: "Total bytes consumed and produced by the codec",
	},
	[]string{"operation", "direction"},
)

var CacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: prefix + "cache_lookups",
		Help: "Result cache lookups by outcome",
	},
	[]string{"status"},
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(TotalOperations)
	reg.MustRegister(OperationDurations)
	reg.MustRegister(ProcessedBytes)
	reg.MustRegister(CacheLookups)
}

// Observe records one finished operation.
func Observe(operation, algorithm string, start time.Time, in, out int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	TotalOperations.WithLabelValues(operation, algorithm, status).Inc()
	OperationDurations.WithLabelValues(operation, algorithm).Observe(time.Since(start).Seconds())
	ProcessedBytes.WithLabelValues(operation, "in").Add(float64(in))
	if err == nil {
		ProcessedBytes.WithLabelValues(operation, "out").Add(float64(out))
	}
}
