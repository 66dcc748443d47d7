package models

// ClusterFailure records a cluster that was skipped during a scan
type ClusterFailure struct {
	Cluster string
	Reason  string
}

// ScopeResult aggregates the outcome of scanning one profile. A failed
// profile carries Err and no rows; a partially failed profile carries rows
// plus the clusters that were skipped. Errors never cross scope boundaries
// as panics or aborts - callers inspect the result and keep going.
type ScopeResult struct {
	Profile string
	Rows    []*ServiceRow
	Skipped []ClusterFailure
	Err     error
}

// Failed reports whether the whole scope was lost
func (r *ScopeResult) Failed() bool {
	return r.Err != nil
}
