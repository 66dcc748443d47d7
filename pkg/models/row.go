package models

// UtilizationLevel classifies an averaged utilization percentage
type UtilizationLevel string

const (
	LevelLow    UtilizationLevel = "low"
	LevelMedium UtilizationLevel = "medium"
	LevelHigh   UtilizationLevel = "high"
	LevelNoData UtilizationLevel = "no_data"
)

// ServiceRow is one report record per (profile, cluster, service).
// Rows are built once and never mutated afterwards; the only lifecycle is
// construct, append, serialize.
type ServiceRow struct {
	// Identity
	AccountID         string // profile name, not the numeric account ID
	Region            string
	Cluster           string
	Service           string
	TaskDefinitionARN string

	// Sizing from the task definition (nil when the lookup failed or the
	// task definition carries no task-level sizing)
	CPUUnits *int64   // ECS CPU units (1024 = one vCPU)
	VCPU     *float64 // CPUUnits / 1024
	MemoryMB *int64
	MemoryGB *float64 // MemoryMB / 1024

	// Capacity provider strategy, e.g. "FARGATE(weight=1,base=1),FARGATE_SPOT(weight=4,base=0)"
	CapacityProviders string

	// Task counts
	Desired int
	Running int
	Pending int

	// Observed utilization, nil when no datapoints were found
	CPUPct *float64
	MemPct *float64

	// Derived
	CPULevel       UtilizationLevel
	MemLevel       UtilizationLevel
	Recommendation string

	// Which CloudWatch namespace satisfied the lookup, or "no_data"
	MetricsSource string

	Error string
}
