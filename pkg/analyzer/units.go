package analyzer

// CPUUnitsToVCPU converts ECS CPU units to fractional vCPUs (1024 units = 1 vCPU)
func CPUUnitsToVCPU(units *int64) *float64 {
	if units == nil {
		return nil
	}
	v := float64(*units) / 1024.0
	return &v
}

// MemoryMBToGB converts a task memory allocation in MB to GB
func MemoryMBToGB(mb *int64) *float64 {
	if mb == nil {
		return nil
	}
	v := float64(*mb) / 1024.0
	return &v
}
