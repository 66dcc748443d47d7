package scanner

import (
	"time"

	"github.com/google/uuid"

	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Run aggregates scope results across profiles under one run identifier
type Run struct {
	ID        string
	Region    string
	StartedAt time.Time
	Results   []*models.ScopeResult
}

// NewRun starts a new run
func NewRun(region string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Region:    region,
		StartedAt: time.Now().UTC(),
	}
}

// Add appends one profile's result
func (r *Run) Add(result *models.ScopeResult) {
	r.Results = append(r.Results, result)
}

// Rows flattens all successful rows in profile order
func (r *Run) Rows() []*models.ServiceRow {
	var rows []*models.ServiceRow
	for _, res := range r.Results {
		rows = append(rows, res.Rows...)
	}
	return rows
}

// FailedScopes returns the profiles that were skipped entirely
func (r *Run) FailedScopes() []*models.ScopeResult {
	var failed []*models.ScopeResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}
