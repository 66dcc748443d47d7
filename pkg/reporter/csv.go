package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Header is the fixed CSV column order. Consumers key on these names, so
// the order and spelling are part of the output contract.
var Header = []string{
	"account_id",
	"region",
	"cluster",
	"service",
	"task_definition_arn",
	"cpu_units",
	"vcpu",
	"memory_mb",
	"memory_gb",
	"capacity_providers",
	"desired",
	"running",
	"pending",
	"cpu_pct",
	"cpu_level",
	"mem_pct",
	"mem_level",
	"recommendation",
	"metrics_source",
	"error",
}

// WriteCSV serializes rows in the fixed column order. Optional numeric
// fields render with two decimals when present and as the empty string when
// absent.
func WriteCSV(rows []*models.ServiceRow, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.AccountID,
			r.Region,
			r.Cluster,
			r.Service,
			r.TaskDefinitionARN,
			intOrEmpty(r.CPUUnits),
			floatOrEmpty(r.VCPU),
			intOrEmpty(r.MemoryMB),
			floatOrEmpty(r.MemoryGB),
			r.CapacityProviders,
			strconv.Itoa(r.Desired),
			strconv.Itoa(r.Running),
			strconv.Itoa(r.Pending),
			floatOrEmpty(r.CPUPct),
			string(r.CPULevel),
			floatOrEmpty(r.MemPct),
			string(r.MemLevel),
			r.Recommendation,
			r.MetricsSource,
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func intOrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
