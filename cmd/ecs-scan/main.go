package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudsift/ecs-cost-advisor/pkg/analyzer"
	"github.com/cloudsift/ecs-cost-advisor/pkg/config"
	"github.com/cloudsift/ecs-cost-advisor/pkg/reporter"
	"github.com/cloudsift/ecs-cost-advisor/pkg/scanner"
)

var (
	// Profile selection
	profile      string
	profiles     string
	profilesFile string

	// Scan flags
	region          string
	outputPath      string
	outputFormat    string
	clusterFilter   string
	windowHours     int
	cpuLowMax       float64
	cpuMedMax       float64
	memLowMax       float64
	memMedMax       float64
	topN            int
	summaryMarkdown string
	verbose         bool

	cfg *config.Config
)

func main() {
	cfg = config.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "ecs-scan",
		Short: "ECS service inventory and rightsizing advisor",
		Long: `Inventory ECS services across one or more AWS profiles, enrich them with
averaged CloudWatch CPU/memory utilization, classify resource pressure and
emit an enriched CSV plus grouped top-N summaries with sizing advice.`,
		RunE: runScan,
	}

	rootCmd.Flags().StringVar(&profile, "profile", "", "Single AWS profile (default: SDK default profile chain)")
	rootCmd.Flags().StringVar(&profiles, "profiles", "", "Comma-separated list of AWS profiles")
	rootCmd.Flags().StringVar(&profilesFile, "profiles-file", "", "File with one profile per line (# comments skipped)")
	rootCmd.Flags().StringVar(&region, "region", cfg.Region, "AWS region (e.g. us-east-1)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", cfg.OutputPath, "Output file ('-' for stdout)")
	rootCmd.Flags().StringVar(&outputFormat, "format", cfg.Format, "Output format: csv, json")
	rootCmd.Flags().StringVar(&clusterFilter, "clusters", "", "Optional comma-separated cluster name filter")
	rootCmd.Flags().IntVar(&windowHours, "hours", cfg.WindowHours, "Metrics window in hours")
	rootCmd.Flags().Float64Var(&cpuLowMax, "cpu-low-max", cfg.CPULowMax, "CPU% below this is low")
	rootCmd.Flags().Float64Var(&cpuMedMax, "cpu-med-max", cfg.CPUMedMax, "CPU% up to this is medium")
	rootCmd.Flags().Float64Var(&memLowMax, "mem-low-max", cfg.MemLowMax, "Memory% below this is low")
	rootCmd.Flags().Float64Var(&memMedMax, "mem-med-max", cfg.MemMedMax, "Memory% up to this is medium")
	rootCmd.Flags().IntVar(&topN, "top", cfg.TopN, "Number of services per summary section")
	rootCmd.Flags().StringVar(&summaryMarkdown, "summary-markdown", "", "Optional file for a markdown summary")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg.Region = region
	cfg.WindowHours = windowHours
	cfg.CPULowMax = cpuLowMax
	cfg.CPUMedMax = cpuMedMax
	cfg.MemLowMax = memLowMax
	cfg.MemMedMax = memMedMax
	cfg.OutputPath = outputPath
	cfg.Format = outputFormat
	cfg.TopN = topN
	cfg.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		return err
	}

	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	profileList, err := resolveProfiles()
	if err != nil {
		return err
	}

	end := time.Now().UTC()
	start := end.Add(-time.Duration(cfg.WindowHours) * time.Hour)

	opts := scanner.Options{
		Region:        cfg.Region,
		ClusterFilter: splitList(clusterFilter),
		Start:         start,
		End:           end,
		CPUThresholds: analyzer.Thresholds{LowMax: cfg.CPULowMax, MedMax: cfg.CPUMedMax},
		MemThresholds: analyzer.Thresholds{LowMax: cfg.MemLowMax, MedMax: cfg.MemMedMax},
	}

	ctx := context.Background()
	run := scanner.NewRun(cfg.Region)

	for _, prof := range profileList {
		label := prof
		if label == "" {
			label = "default"
		}
		fmt.Printf("\n==> Collecting ECS data for profile: %s | region: %s\n", label, cfg.Region)

		s, err := scanner.New(ctx, prof, cfg.Region)
		if err != nil {
			logrus.WithField("profile", label).Errorf("session setup failed: %v", err)
			continue
		}

		scopeOpts := opts
		scopeOpts.Profile = label
		result := s.Scan(ctx, scopeOpts)
		if result.Failed() {
			logrus.WithField("profile", label).Errorf("scope skipped: %v", result.Err)
		}
		run.Add(result)
	}

	rows := run.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No services found (or access failure).")
		os.Exit(2)
	}

	if err := writeReport(run); err != nil {
		return err
	}

	summary := reporter.Summarize(rows, cfg.TopN)
	md := summary.Render(os.Stdout, run.ID)
	if summaryMarkdown != "" {
		if err := os.WriteFile(summaryMarkdown, []byte(md), 0644); err != nil {
			return fmt.Errorf("failed to write markdown summary: %w", err)
		}
		fmt.Printf("\n[INFO] Markdown summary written to: %s\n", summaryMarkdown)
	}

	return nil
}

func writeReport(run *scanner.Run) error {
	out := os.Stdout
	if cfg.OutputPath != "-" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	rows := run.Rows()
	switch cfg.Format {
	case "json":
		if err := reporter.WriteJSON(rows, run.ID, run.Region, out); err != nil {
			return err
		}
	default:
		if err := reporter.WriteCSV(rows, out); err != nil {
			return err
		}
	}

	if cfg.OutputPath != "-" {
		fmt.Printf("\n[INFO] Enriched report generated at: %s\n", cfg.OutputPath)
	}
	return nil
}

// resolveProfiles applies the flag precedence: --profiles, then
// --profiles-file, then --profile, then the SDK default profile chain
// (empty profile name).
func resolveProfiles() ([]string, error) {
	if profiles != "" {
		return splitList(profiles), nil
	}
	if profilesFile != "" {
		return readProfilesFile(profilesFile)
	}
	if profile != "" {
		return []string{profile}, nil
	}
	return []string{""}, nil
}

// readProfilesFile reads one profile per line, skipping blanks and # comments
func readProfilesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("profiles file %s contains no profiles", path)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
