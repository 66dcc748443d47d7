package recommender

import (
	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

// Action messages. Exported so the reporter and tests can match on them
// instead of duplicating strings.
const (
	MsgNoRunning = "Running=0. Service has no running tasks: review if it can be deactivated/removed or kept on-demand."
	MsgCPUHigh   = "High CPU: possible bottleneck. Consider increasing CPU and/or enabling autoscaling (keep memory)."
	MsgMemHigh   = "High memory (OOMKill risk). Consider increasing memory and investigate leak/cache/heap."
	MsgOversized = "Low CPU and memory: over-provisioned. Consider downsizing CPU/memory and/or using FARGATE_SPOT."
	MsgCPUIdle   = "Idle CPU: consider reducing CPU while maintaining memory."
	MsgMemIdle   = "Idle memory: consider reducing memory (carefully) while maintaining CPU."
	MsgNoData    = "Incomplete metrics: validate Container Insights / ECS metrics in CloudWatch and re-evaluate."
	MsgBalanced  = "Looks OK: monitor peaks and adjust with historical data (7-14 days)."
)

// Recommend maps a pair of utilization levels plus the running-task count to
// an action. It is a pure function over its arguments and total over every
// level combination.
//
// The rules form an ordered decision table: first match wins. In particular
// high CPU with low memory satisfies both the CPU-bottleneck rule and the
// idle-memory rule; the bottleneck rule is listed first and must stay first.
func Recommend(cpuLevel, memLevel models.UtilizationLevel, running int) string {
	if running == 0 {
		return MsgNoRunning
	}

	if cpuLevel == models.LevelHigh && (memLevel == models.LevelLow || memLevel == models.LevelMedium) {
		return MsgCPUHigh
	}

	if memLevel == models.LevelHigh {
		return MsgMemHigh
	}

	if cpuLevel == models.LevelLow && memLevel == models.LevelLow {
		return MsgOversized
	}

	if cpuLevel == models.LevelLow && (memLevel == models.LevelMedium || memLevel == models.LevelHigh) {
		return MsgCPUIdle
	}

	if (cpuLevel == models.LevelMedium || cpuLevel == models.LevelHigh) && memLevel == models.LevelLow {
		return MsgMemIdle
	}

	if cpuLevel == models.LevelNoData || memLevel == models.LevelNoData {
		return MsgNoData
	}

	return MsgBalanced
}
