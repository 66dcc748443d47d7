package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default classification thresholds. Memory deliberately flags "low" below
// 35% while CPU uses 40%; both are overridable per run.
const (
	DefaultCPULowMax = 40.0
	DefaultCPUMedMax = 69.0
	DefaultMemLowMax = 35.0
	DefaultMemMedMax = 69.0
)

// Config holds application configuration
type Config struct {
	// AWS
	Region string

	// Metrics window
	WindowHours int

	// Classification thresholds (percent)
	CPULowMax float64
	CPUMedMax float64
	MemLowMax float64
	MemMedMax float64

	// Output
	OutputPath string // "-" means stdout
	Format     string // csv, json
	TopN       int
	Verbose    bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Region:      getEnv("AWS_REGION", ""),
		WindowHours: getEnvInt("METRICS_WINDOW_HOURS", 24),
		CPULowMax:   DefaultCPULowMax,
		CPUMedMax:   DefaultCPUMedMax,
		MemLowMax:   DefaultMemLowMax,
		MemMedMax:   DefaultMemMedMax,
		OutputPath:  "ecs_enriched.csv",
		Format:      "csv",
		TopN:        10,
		Verbose:     false,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must be set (--region or AWS_REGION)")
	}
	if c.WindowHours < 1 {
		return fmt.Errorf("metrics window must be at least 1 hour")
	}
	if c.CPULowMax > c.CPUMedMax {
		return fmt.Errorf("cpu-low-max (%.1f) must not exceed cpu-med-max (%.1f)", c.CPULowMax, c.CPUMedMax)
	}
	if c.MemLowMax > c.MemMedMax {
		return fmt.Errorf("mem-low-max (%.1f) must not exceed mem-med-max (%.1f)", c.MemLowMax, c.MemMedMax)
	}
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("format must be csv or json, got %q", c.Format)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top must be at least 1")
	}
	return nil
}
