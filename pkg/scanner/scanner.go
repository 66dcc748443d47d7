package scanner

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/cloudsift/ecs-cost-advisor/pkg/analyzer"
	"github.com/cloudsift/ecs-cost-advisor/pkg/datasource"
	"github.com/cloudsift/ecs-cost-advisor/pkg/inventory"
	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Options controls how one profile is scanned
type Options struct {
	Profile       string // shared config profile name, also the account label
	Region        string
	ClusterFilter []string // cluster names; empty means all clusters
	Start         time.Time
	End           time.Time
	CPUThresholds analyzer.Thresholds
	MemThresholds analyzer.Thresholds
}

// Scanner walks one profile's clusters and services and builds report rows.
// Everything is sequential: clusters one after another, services within a
// cluster one after another. A cluster failure is recorded and skipped, it
// never aborts the remaining clusters.
type Scanner struct {
	inv     *inventory.Inventory
	metrics datasource.MetricsSource
}

// New creates a scanner with AWS clients for the given profile and region
func New(ctx context.Context, profile, region string) (*Scanner, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}

	return &Scanner{
		inv:     inventory.New(cfg),
		metrics: datasource.NewCloudWatchSource(cfg),
	}, nil
}

// NewWithClients wires explicit collaborators, used by tests
func NewWithClients(inv *inventory.Inventory, metrics datasource.MetricsSource) *Scanner {
	return &Scanner{inv: inv, metrics: metrics}
}

// Scan collects one row per service under the profile. The returned result
// carries either rows (possibly with skipped clusters) or a scope-level
// error; it never panics and never returns a Go error.
func (s *Scanner) Scan(ctx context.Context, opts Options) *models.ScopeResult {
	result := &models.ScopeResult{Profile: opts.Profile}

	clusterARNs, err := s.inv.ListClusters(ctx)
	if err != nil {
		result.Err = fmt.Errorf("list clusters failed: %w", err)
		return result
	}

	clusterARNs = filterClusters(clusterARNs, opts.ClusterFilter)

	for _, clusterARN := range clusterARNs {
		clusterName := inventory.ARNToName(clusterARN)

		rows, err := s.scanCluster(ctx, clusterARN, clusterName, opts)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"profile": opts.Profile,
				"cluster": clusterName,
			}).Warnf("skipping cluster: %v", err)
			result.Skipped = append(result.Skipped, models.ClusterFailure{
				Cluster: clusterName,
				Reason:  err.Error(),
			})
			continue
		}
		result.Rows = append(result.Rows, rows...)
	}

	return result
}

func (s *Scanner) scanCluster(ctx context.Context, clusterARN, clusterName string, opts Options) ([]*models.ServiceRow, error) {
	serviceARNs, err := s.inv.ListServices(ctx, clusterARN)
	if err != nil {
		return nil, err
	}
	if len(serviceARNs) == 0 {
		return nil, nil
	}

	services, err := s.inv.DescribeServices(ctx, clusterARN, serviceARNs)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.ServiceRow, 0, len(services))
	for _, svc := range services {
		rows = append(rows, s.buildRow(ctx, clusterName, svc, opts))
	}
	return rows, nil
}
