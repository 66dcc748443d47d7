package scanner

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/sirupsen/logrus"

	"github.com/cloudsift/ecs-cost-advisor/pkg/analyzer"
	"github.com/cloudsift/ecs-cost-advisor/pkg/inventory"
	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
	"github.com/cloudsift/ecs-cost-advisor/pkg/recommender"
)

// buildRow fuses the service descriptor, task-definition sizing and metric
// lookup into one immutable report row. Sizing and metric failures degrade
// the row (nil fields, no_data levels) instead of dropping it.
func (s *Scanner) buildRow(ctx context.Context, clusterName string, svc ecstypes.Service, opts Options) *models.ServiceRow {
	serviceName := aws.ToString(svc.ServiceName)
	taskDefARN := aws.ToString(svc.TaskDefinition)

	row := &models.ServiceRow{
		AccountID:         opts.Profile,
		Region:            opts.Region,
		Cluster:           clusterName,
		Service:           serviceName,
		TaskDefinitionARN: taskDefARN,
		CapacityProviders: inventory.CapacityProvidersString(svc),
		Desired:           int(svc.DesiredCount),
		Running:           int(svc.RunningCount),
		Pending:           int(svc.PendingCount),
	}

	if taskDefARN != "" {
		sizing, err := s.inv.DescribeTaskSizing(ctx, taskDefARN)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"profile": opts.Profile,
				"cluster": clusterName,
				"service": serviceName,
			}).Debugf("task definition lookup failed: %v", err)
		} else {
			row.CPUUnits = sizing.CPUUnits
			row.MemoryMB = sizing.MemoryMB
			row.VCPU = analyzer.CPUUnitsToVCPU(sizing.CPUUnits)
			row.MemoryGB = analyzer.MemoryMBToGB(sizing.MemoryMB)
		}
	}

	util := s.metrics.FetchServiceUtilization(ctx, clusterName, serviceName, opts.Start, opts.End)
	row.CPUPct = util.CPUPct
	row.MemPct = util.MemPct
	row.MetricsSource = util.Source

	row.CPULevel = analyzer.Classify(row.CPUPct, opts.CPUThresholds)
	row.MemLevel = analyzer.Classify(row.MemPct, opts.MemThresholds)
	row.Recommendation = recommender.Recommend(row.CPULevel, row.MemLevel, row.Running)

	return row
}

// filterClusters keeps only the ARNs whose name segment is in the allow
// list; an empty list keeps everything
func filterClusters(arns []string, allow []string) []string {
	if len(allow) == 0 {
		return arns
	}
	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}
	var out []string
	for _, arn := range arns {
		if allowed[inventory.ARNToName(arn)] {
			out = append(out, arn)
		}
	}
	return out
}
