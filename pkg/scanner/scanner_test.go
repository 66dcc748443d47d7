package scanner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/cloudsift/ecs-cost-advisor/pkg/analyzer"
	"github.com/cloudsift/ecs-cost-advisor/pkg/datasource"
	"github.com/cloudsift/ecs-cost-advisor/pkg/inventory"
	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
	"github.com/cloudsift/ecs-cost-advisor/pkg/recommender"
)

type fakeECS struct {
	clusters    []string
	services    map[string][]string        // cluster ARN -> service ARNs
	descriptors map[string]types.Service   // service ARN -> descriptor
	taskDefs    map[string]*types.TaskDefinition

	listClustersErr error
	listServicesErr map[string]error
}

func (f *fakeECS) ListClusters(ctx context.Context, params *ecs.ListClustersInput, optFns ...func(*ecs.Options)) (*ecs.ListClustersOutput, error) {
	if f.listClustersErr != nil {
		return nil, f.listClustersErr
	}
	return &ecs.ListClustersOutput{ClusterArns: f.clusters}, nil
}

func (f *fakeECS) ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error) {
	cluster := aws.ToString(params.Cluster)
	if err, ok := f.listServicesErr[cluster]; ok {
		return nil, err
	}
	return &ecs.ListServicesOutput{ServiceArns: f.services[cluster]}, nil
}

func (f *fakeECS) DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	out := &ecs.DescribeServicesOutput{}
	for _, arn := range params.Services {
		if svc, ok := f.descriptors[arn]; ok {
			out.Services = append(out.Services, svc)
		}
	}
	return out, nil
}

func (f *fakeECS) DescribeTaskDefinition(ctx context.Context, params *ecs.DescribeTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTaskDefinitionOutput, error) {
	td, ok := f.taskDefs[aws.ToString(params.TaskDefinition)]
	if !ok {
		return nil, fmt.Errorf("task definition not found")
	}
	return &ecs.DescribeTaskDefinitionOutput{TaskDefinition: td}, nil
}

// fakeMetrics serves canned utilization keyed by "cluster/service"
type fakeMetrics struct {
	utilization map[string]datasource.ServiceUtilization
}

func (f *fakeMetrics) FetchServiceUtilization(ctx context.Context, cluster, service string, start, end time.Time) datasource.ServiceUtilization {
	if u, ok := f.utilization[cluster+"/"+service]; ok {
		return u
	}
	return datasource.ServiceUtilization{Source: datasource.SourceNoData}
}

func (f *fakeMetrics) Name() string { return "fake" }

func fp(v float64) *float64 { return &v }

func defaultOpts() Options {
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Options{
		Profile:       "company-dev",
		Region:        "us-east-1",
		Start:         end.Add(-24 * time.Hour),
		End:           end,
		CPUThresholds: analyzer.DefaultCPUThresholds(),
		MemThresholds: analyzer.DefaultMemThresholds(),
	}
}

func TestScanBuildsEnrichedRows(t *testing.T) {
	fake := &fakeECS{
		clusters: []string{"arn:aws:ecs:us-east-1:1:cluster/api-cluster"},
		services: map[string][]string{
			"arn:aws:ecs:us-east-1:1:cluster/api-cluster": {"arn:aws:ecs:us-east-1:1:service/api-cluster/web"},
		},
		descriptors: map[string]types.Service{
			"arn:aws:ecs:us-east-1:1:service/api-cluster/web": {
				ServiceName:    aws.String("web"),
				TaskDefinition: aws.String("arn:aws:ecs:us-east-1:1:task-definition/web:7"),
				DesiredCount:   3,
				RunningCount:   3,
				PendingCount:   0,
				CapacityProviderStrategy: []types.CapacityProviderStrategyItem{
					{CapacityProvider: aws.String("FARGATE"), Weight: 1, Base: 1},
				},
			},
		},
		taskDefs: map[string]*types.TaskDefinition{
			"arn:aws:ecs:us-east-1:1:task-definition/web:7": {
				Cpu:    aws.String("512"),
				Memory: aws.String("2048"),
			},
		},
	}
	metrics := &fakeMetrics{
		utilization: map[string]datasource.ServiceUtilization{
			"api-cluster/web": {CPUPct: fp(75), MemPct: fp(20), Source: "ECS/ContainerInsights"},
		},
	}

	s := NewWithClients(inventory.NewWithClient(fake), metrics)
	result := s.Scan(context.Background(), defaultOpts())

	if result.Failed() {
		t.Fatalf("Scan failed: %v", result.Err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(result.Rows))
	}

	row := result.Rows[0]
	if row.AccountID != "company-dev" || row.Cluster != "api-cluster" || row.Service != "web" {
		t.Errorf("Unexpected identity: %s/%s/%s", row.AccountID, row.Cluster, row.Service)
	}
	if row.VCPU == nil || *row.VCPU != 0.5 {
		t.Errorf("Expected 0.5 vCPU, got %v", row.VCPU)
	}
	if row.MemoryGB == nil || *row.MemoryGB != 2.0 {
		t.Errorf("Expected 2.0 GB, got %v", row.MemoryGB)
	}
	if row.CapacityProviders != "FARGATE(weight=1,base=1)" {
		t.Errorf("Unexpected capacity providers: %q", row.CapacityProviders)
	}
	if row.CPULevel != models.LevelHigh || row.MemLevel != models.LevelLow {
		t.Errorf("Expected high/low levels, got %s/%s", row.CPULevel, row.MemLevel)
	}
	if row.Recommendation != recommender.MsgCPUHigh {
		t.Errorf("Expected CPU bottleneck recommendation, got %q", row.Recommendation)
	}
	if row.MetricsSource != "ECS/ContainerInsights" {
		t.Errorf("Unexpected metrics source: %s", row.MetricsSource)
	}
}

func TestScanSurvivesTaskDefinitionFailure(t *testing.T) {
	fake := &fakeECS{
		clusters: []string{"arn:aws:ecs:us-east-1:1:cluster/c"},
		services: map[string][]string{
			"arn:aws:ecs:us-east-1:1:cluster/c": {"arn:aws:ecs:us-east-1:1:service/c/s"},
		},
		descriptors: map[string]types.Service{
			"arn:aws:ecs:us-east-1:1:service/c/s": {
				ServiceName:    aws.String("s"),
				TaskDefinition: aws.String("arn:missing"),
				RunningCount:   1,
				DesiredCount:   1,
			},
		},
	}
	s := NewWithClients(inventory.NewWithClient(fake), &fakeMetrics{})
	result := s.Scan(context.Background(), defaultOpts())

	if len(result.Rows) != 1 {
		t.Fatalf("Expected the row despite the sizing failure, got %d rows", len(result.Rows))
	}
	row := result.Rows[0]
	if row.CPUUnits != nil || row.MemoryMB != nil {
		t.Error("Expected nil sizing after task definition failure")
	}
	if row.CPULevel != models.LevelNoData || row.MemLevel != models.LevelNoData {
		t.Errorf("Expected no_data levels, got %s/%s", row.CPULevel, row.MemLevel)
	}
	if row.Recommendation != recommender.MsgNoData {
		t.Errorf("Expected incomplete metrics recommendation, got %q", row.Recommendation)
	}
}

func TestScanSkipsFailingCluster(t *testing.T) {
	fake := &fakeECS{
		clusters: []string{
			"arn:aws:ecs:us-east-1:1:cluster/broken",
			"arn:aws:ecs:us-east-1:1:cluster/healthy",
		},
		services: map[string][]string{
			"arn:aws:ecs:us-east-1:1:cluster/healthy": {"arn:aws:ecs:us-east-1:1:service/healthy/s"},
		},
		descriptors: map[string]types.Service{
			"arn:aws:ecs:us-east-1:1:service/healthy/s": {ServiceName: aws.String("s"), RunningCount: 1},
		},
		listServicesErr: map[string]error{
			"arn:aws:ecs:us-east-1:1:cluster/broken": fmt.Errorf("access denied"),
		},
	}
	s := NewWithClients(inventory.NewWithClient(fake), &fakeMetrics{})
	result := s.Scan(context.Background(), defaultOpts())

	if result.Failed() {
		t.Fatalf("Scope must survive a single cluster failure: %v", result.Err)
	}
	if len(result.Rows) != 1 {
		t.Errorf("Expected 1 row from the healthy cluster, got %d", len(result.Rows))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Cluster != "broken" {
		t.Errorf("Expected cluster 'broken' recorded as skipped, got %+v", result.Skipped)
	}
}

func TestScanScopeFailure(t *testing.T) {
	fake := &fakeECS{listClustersErr: fmt.Errorf("expired credentials")}
	s := NewWithClients(inventory.NewWithClient(fake), &fakeMetrics{})

	result := s.Scan(context.Background(), defaultOpts())
	if !result.Failed() {
		t.Fatal("Expected scope-level failure")
	}
	if len(result.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(result.Rows))
	}
}

func TestClusterFilter(t *testing.T) {
	fake := &fakeECS{
		clusters: []string{
			"arn:aws:ecs:us-east-1:1:cluster/api-cluster",
			"arn:aws:ecs:us-east-1:1:cluster/worker-cluster",
		},
		services: map[string][]string{
			"arn:aws:ecs:us-east-1:1:cluster/api-cluster":    {"arn:aws:ecs:us-east-1:1:service/api-cluster/a"},
			"arn:aws:ecs:us-east-1:1:cluster/worker-cluster": {"arn:aws:ecs:us-east-1:1:service/worker-cluster/w"},
		},
		descriptors: map[string]types.Service{
			"arn:aws:ecs:us-east-1:1:service/api-cluster/a":    {ServiceName: aws.String("a"), RunningCount: 1},
			"arn:aws:ecs:us-east-1:1:service/worker-cluster/w": {ServiceName: aws.String("w"), RunningCount: 1},
		},
	}
	s := NewWithClients(inventory.NewWithClient(fake), &fakeMetrics{})

	opts := defaultOpts()
	opts.ClusterFilter = []string{"worker-cluster"}
	result := s.Scan(context.Background(), opts)

	if len(result.Rows) != 1 || result.Rows[0].Cluster != "worker-cluster" {
		t.Errorf("Expected only worker-cluster rows, got %+v", result.Rows)
	}
}

func TestRunAggregation(t *testing.T) {
	run := NewRun("us-east-1")
	if run.ID == "" {
		t.Fatal("Expected a run ID")
	}

	run.Add(&models.ScopeResult{Profile: "a", Rows: []*models.ServiceRow{{Service: "s1"}}})
	run.Add(&models.ScopeResult{Profile: "b", Err: fmt.Errorf("login failed")})
	run.Add(&models.ScopeResult{Profile: "c", Rows: []*models.ServiceRow{{Service: "s2"}, {Service: "s3"}}})

	if got := len(run.Rows()); got != 3 {
		t.Errorf("Expected 3 rows across scopes, got %d", got)
	}
	failed := run.FailedScopes()
	if len(failed) != 1 || failed[0].Profile != "b" {
		t.Errorf("Expected profile b as the failed scope, got %+v", failed)
	}
}
