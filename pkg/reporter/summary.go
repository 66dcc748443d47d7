package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Summary groups the full row collection into the three (non-exclusive)
// report categories
type Summary struct {
	Total       int
	Bottlenecks []*models.ServiceRow // running>0 and either level high
	Oversized   []*models.ServiceRow // running>0 and both levels low
	Stopped     []*models.ServiceRow // running==0
	TopN        int
}

// Summarize builds a summary over all rows
func Summarize(rows []*models.ServiceRow, topN int) *Summary {
	s := &Summary{Total: len(rows), TopN: topN}
	for _, r := range rows {
		if r.Running == 0 {
			s.Stopped = append(s.Stopped, r)
			continue
		}
		if r.CPULevel == models.LevelHigh || r.MemLevel == models.LevelHigh {
			s.Bottlenecks = append(s.Bottlenecks, r)
		}
		if r.CPULevel == models.LevelLow && r.MemLevel == models.LevelLow {
			s.Oversized = append(s.Oversized, r)
		}
	}
	return s
}

// rankKey orders by percentage descending; a missing percentage ranks below
// any present value
func rankKey(v *float64) float64 {
	if v == nil {
		return -1.0
	}
	return *v
}

func sortedByCPU(rows []*models.ServiceRow) []*models.ServiceRow {
	out := make([]*models.ServiceRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return rankKey(out[i].CPUPct) > rankKey(out[j].CPUPct)
	})
	return out
}

func sortedByMem(rows []*models.ServiceRow) []*models.ServiceRow {
	out := make([]*models.ServiceRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return rankKey(out[i].MemPct) > rankKey(out[j].MemPct)
	})
	return out
}

func top(rows []*models.ServiceRow, n int) []*models.ServiceRow {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

func pctCell(v *float64, level models.UtilizationLevel) string {
	if v == nil {
		return string(level)
	}
	return fmt.Sprintf("%.2f%% (%s)", *v, level)
}

// Render prints the grouped top-N summary as console tables and returns the
// markdown rendition of the same tables
func (s *Summary) Render(w io.Writer, runID string) string {
	var md strings.Builder

	fmt.Fprintf(w, "\n=== SUMMARY (run %s) ===\n", runID)
	fmt.Fprintf(w, "Total services: %d\n", s.Total)
	fmt.Fprintf(w, "Bottlenecks (high CPU or high memory, running>0): %d\n", len(s.Bottlenecks))
	fmt.Fprintf(w, "Over-provisioned (low CPU and low memory, running>0): %d\n", len(s.Oversized))
	fmt.Fprintf(w, "Running=0: %d\n", len(s.Stopped))

	md.WriteString(fmt.Sprintf("# Scan summary (run %s)\n\n", runID))
	md.WriteString(fmt.Sprintf("- Total services: %d\n", s.Total))
	md.WriteString(fmt.Sprintf("- Bottlenecks: %d\n", len(s.Bottlenecks)))
	md.WriteString(fmt.Sprintf("- Over-provisioned: %d\n", len(s.Oversized)))
	md.WriteString(fmt.Sprintf("- Running=0: %d\n\n", len(s.Stopped)))

	if len(s.Bottlenecks) > 0 {
		md.WriteString(renderSection(w, "Top bottlenecks by CPU%",
			[]string{"Account", "Cluster/Service", "CPU", "Memory"},
			bottleneckRows(top(sortedByCPU(s.Bottlenecks), s.TopN))))
		md.WriteString(renderSection(w, "Top bottlenecks by Memory%",
			[]string{"Account", "Cluster/Service", "Memory", "CPU"},
			bottleneckRowsMemFirst(top(sortedByMem(s.Bottlenecks), s.TopN))))
	}

	if len(s.Oversized) > 0 {
		md.WriteString(renderSection(w, "Top over-provisioned (low CPU + low memory)",
			[]string{"Account", "Cluster/Service", "CPU", "Memory"},
			bottleneckRows(top(sortedByCPU(s.Oversized), s.TopN))))
	}

	if len(s.Stopped) > 0 {
		md.WriteString(renderSection(w, "Running=0 (cleanup / on-demand candidates)",
			[]string{"Account", "Cluster/Service", "Desired", "Running", "Pending"},
			stoppedRows(top(s.Stopped, s.TopN))))
	}

	return md.String()
}

// renderSection renders one table to the console writer and returns its
// markdown form
func renderSection(w io.Writer, title string, headers []string, rows [][]string) string {
	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}

	console := table.NewWriter()
	console.SetOutputMirror(w)
	console.SetTitle(title)
	console.AppendHeader(headerRow)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		console.AppendRow(r)
	}
	console.SetStyle(table.StyleRounded)
	fmt.Fprintln(w)
	console.Render()

	md := table.NewWriter()
	md.AppendHeader(headerRow)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		md.AppendRow(r)
	}
	return fmt.Sprintf("## %s\n\n%s\n\n", title, md.RenderMarkdown())
}

func bottleneckRows(rows []*models.ServiceRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.AccountID,
			r.Cluster + "/" + r.Service,
			pctCell(r.CPUPct, r.CPULevel),
			pctCell(r.MemPct, r.MemLevel),
		})
	}
	return out
}

func bottleneckRowsMemFirst(rows []*models.ServiceRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.AccountID,
			r.Cluster + "/" + r.Service,
			pctCell(r.MemPct, r.MemLevel),
			pctCell(r.CPUPct, r.CPULevel),
		})
	}
	return out
}

func stoppedRows(rows []*models.ServiceRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.AccountID,
			r.Cluster + "/" + r.Service,
			fmt.Sprintf("%d", r.Desired),
			fmt.Sprintf("%d", r.Running),
			fmt.Sprintf("%d", r.Pending),
		})
	}
	return out
}
