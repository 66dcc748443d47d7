package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// WriteJSON emits the rows plus run metadata as indented JSON
func WriteJSON(rows []*models.ServiceRow, runID, region string, writer io.Writer) error {
	output := map[string]interface{}{
		"run_id":    runID,
		"region":    region,
		"count":     len(rows),
		"services":  rows,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
