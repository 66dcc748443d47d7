package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// describe_services accepts at most 10 service ARNs per call
const describeServicesBatchSize = 10

// ECSAPI is the slice of the ECS client the inventory needs. The paginator
// interfaces come from the SDK so the same fake works for list calls.
type ECSAPI interface {
	ecs.ListClustersAPIClient
	ecs.ListServicesAPIClient
	DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
	DescribeTaskDefinition(ctx context.Context, params *ecs.DescribeTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTaskDefinitionOutput, error)
}

// Inventory lists clusters, services and task definitions for one account
type Inventory struct {
	client ECSAPI
}

// New creates an inventory backed by an ECS client for the given config
func New(cfg aws.Config) *Inventory {
	return &Inventory{client: ecs.NewFromConfig(cfg)}
}

// NewWithClient wires an explicit client, used by tests
func NewWithClient(client ECSAPI) *Inventory {
	return &Inventory{client: client}
}

// ListClusters returns all cluster ARNs in the account/region
func (inv *Inventory) ListClusters(ctx context.Context) ([]string, error) {
	var arns []string
	p := ecs.NewListClustersPaginator(inv.client, &ecs.ListClustersInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}
		arns = append(arns, page.ClusterArns...)
	}
	return arns, nil
}

// ListServices returns all service ARNs in a cluster
func (inv *Inventory) ListServices(ctx context.Context, clusterARN string) ([]string, error) {
	var arns []string
	p := ecs.NewListServicesPaginator(inv.client, &ecs.ListServicesInput{
		Cluster: aws.String(clusterARN),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		arns = append(arns, page.ServiceArns...)
	}
	return arns, nil
}

// DescribeServices describes services in batches of 10, preserving order
func (inv *Inventory) DescribeServices(ctx context.Context, clusterARN string, serviceARNs []string) ([]types.Service, error) {
	var out []types.Service
	for _, batch := range chunk(serviceARNs, describeServicesBatchSize) {
		resp, err := inv.client.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(clusterARN),
			Services: batch,
			Include:  []types.ServiceField{types.ServiceFieldTags},
		})
		if err != nil {
			return nil, fmt.Errorf("describe services: %w", err)
		}
		out = append(out, resp.Services...)
	}
	return out, nil
}

// TaskSizing is the allocated compute of one task definition. ECS reports
// task-level cpu/memory as strings and omits them for EC2 launch types
// without task-level limits, so both fields may be nil.
type TaskSizing struct {
	CPUUnits *int64
	MemoryMB *int64
}

// DescribeTaskSizing looks up the cpu/memory allocation of a task definition
func (inv *Inventory) DescribeTaskSizing(ctx context.Context, taskDefARN string) (TaskSizing, error) {
	resp, err := inv.client.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: aws.String(taskDefARN),
	})
	if err != nil {
		return TaskSizing{}, fmt.Errorf("describe task definition: %w", err)
	}
	td := resp.TaskDefinition
	if td == nil {
		return TaskSizing{}, nil
	}
	return TaskSizing{
		CPUUnits: parseIntMaybe(td.Cpu),
		MemoryMB: parseIntMaybe(td.Memory),
	}, nil
}

func chunk(items []string, n int) [][]string {
	var out [][]string
	for i := 0; i < len(items); i += n {
		end := i + n
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
