package datasource

import (
	"context"
	"time"
)

// SourceNoData is the provenance label when no metric source had datapoints
const SourceNoData = "no_data"

// ServiceUtilization is the outcome of one metric lookup. CPU and Mem are
// nil when the source returned no datapoints for that metric; Source names
// the namespace that satisfied the lookup, or SourceNoData.
type ServiceUtilization struct {
	CPUPct *float64
	MemPct *float64
	Source string
}

// MetricsSource defines the interface for resolving service utilization
type MetricsSource interface {
	FetchServiceUtilization(ctx context.Context, cluster, service string, start, end time.Time) ServiceUtilization
	Name() string
}
