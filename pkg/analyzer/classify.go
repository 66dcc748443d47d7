package analyzer

import (
	"github.com/cloudsift/ecs-cost-advisor/pkg/config"
	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Thresholds parameterizes a single classification. Always passed
// explicitly so callers (and tests) can vary thresholds per call.
type Thresholds struct {
	LowMax float64 // value < LowMax        => low
	MedMax float64 // LowMax <= v <= MedMax => medium, above => high
}

// DefaultCPUThresholds returns the stock CPU thresholds
func DefaultCPUThresholds() Thresholds {
	return Thresholds{LowMax: config.DefaultCPULowMax, MedMax: config.DefaultCPUMedMax}
}

// DefaultMemThresholds returns the stock memory thresholds
func DefaultMemThresholds() Thresholds {
	return Thresholds{LowMax: config.DefaultMemLowMax, MedMax: config.DefaultMemMedMax}
}

// Classify maps an averaged utilization percentage to a level. A nil value
// means the metric was unavailable and always yields no_data.
//
// The boundary operators are intentionally asymmetric: the low bucket is
// half-open (v < LowMax) while the medium bucket is closed (v <= MedMax).
func Classify(value *float64, t Thresholds) models.UtilizationLevel {
	if value == nil {
		return models.LevelNoData
	}
	if *value < t.LowMax {
		return models.LevelLow
	}
	if *value <= t.MedMax {
		return models.LevelMedium
	}
	return models.LevelHigh
}
