package datasource

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/sirupsen/logrus"
)

// The two metric namespaces tried in order. Container Insights has the
// richer per-service metrics but is an opt-in feature, so the stock AWS/ECS
// namespace is the fallback.
const (
	namespaceContainerInsights = "ECS/ContainerInsights"
	namespaceECS               = "AWS/ECS"
)

// CloudWatchAPI is the slice of the CloudWatch client the source needs
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// CloudWatchSource resolves averaged CPU/memory utilization for an ECS
// service from CloudWatch metric statistics
type CloudWatchSource struct {
	client CloudWatchAPI
}

// NewCloudWatchSource creates a metrics source backed by CloudWatch
func NewCloudWatchSource(cfg aws.Config) *CloudWatchSource {
	return &CloudWatchSource{client: cloudwatch.NewFromConfig(cfg)}
}

// NewCloudWatchSourceWithClient wires an explicit client, used by tests
func NewCloudWatchSourceWithClient(client CloudWatchAPI) *CloudWatchSource {
	return &CloudWatchSource{client: client}
}

func (s *CloudWatchSource) Name() string {
	return "CloudWatch"
}

// periodForWindow picks the sampling period for a metrics window. CloudWatch
// thins out high-resolution datapoints as they age, so longer windows must
// use coarser periods or come back empty.
func periodForWindow(window time.Duration) int32 {
	switch {
	case window <= 6*time.Hour:
		return 60
	case window <= 48*time.Hour:
		return 300
	default:
		return 900
	}
}

// FetchServiceUtilization tries ECS/ContainerInsights first, then AWS/ECS.
// A namespace that yields any numeric value for either metric wins, even if
// the other metric is missing. Lookup errors are treated as no data - a
// broken metrics pipeline must not fail the scan.
func (s *CloudWatchSource) FetchServiceUtilization(ctx context.Context, cluster, service string, start, end time.Time) ServiceUtilization {
	period := periodForWindow(end.Sub(start))

	dims := []types.Dimension{
		{Name: aws.String("ClusterName"), Value: aws.String(cluster)},
		{Name: aws.String("ServiceName"), Value: aws.String(service)},
	}

	cpu := s.metricAverage(ctx, namespaceContainerInsights, "CpuUtilization", dims, start, end, period)
	mem := s.metricAverage(ctx, namespaceContainerInsights, "MemoryUtilization", dims, start, end, period)
	if cpu != nil || mem != nil {
		return ServiceUtilization{CPUPct: cpu, MemPct: mem, Source: namespaceContainerInsights}
	}

	cpu = s.metricAverage(ctx, namespaceECS, "CPUUtilization", dims, start, end, period)
	mem = s.metricAverage(ctx, namespaceECS, "MemoryUtilization", dims, start, end, period)
	if cpu != nil || mem != nil {
		return ServiceUtilization{CPUPct: cpu, MemPct: mem, Source: namespaceECS}
	}

	return ServiceUtilization{Source: SourceNoData}
}

// metricAverage fetches Average statistics for one metric and collapses the
// datapoints into a single mean. Returns nil on error or when the metric
// has no datapoints in the window.
func (s *CloudWatchSource) metricAverage(ctx context.Context, namespace, metricName string, dims []types.Dimension, start, end time.Time, period int32) *float64 {
	resp, err := s.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(namespace),
		MetricName: aws.String(metricName),
		Dimensions: dims,
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(period),
		Statistics: []types.Statistic{types.StatisticAverage},
	})
	if err != nil {
		logrus.WithError(err).Debugf("GetMetricStatistics %s/%s failed", namespace, metricName)
		return nil
	}

	dps := resp.Datapoints
	if len(dps) == 0 {
		return nil
	}

	sort.Slice(dps, func(i, j int) bool {
		return aws.ToTime(dps[i].Timestamp).Before(aws.ToTime(dps[j].Timestamp))
	})

	sum := 0.0
	count := 0
	for _, dp := range dps {
		if dp.Average == nil {
			continue
		}
		sum += *dp.Average
		count++
	}
	if count == 0 {
		return nil
	}

	avg := sum / float64(count)
	return &avg
}
