package recommender

import (
	"testing"

	"github.com/cloudsift/ecs-cost-advisor/pkg/models"
)

var allLevels = []models.UtilizationLevel{
	models.LevelLow,
	models.LevelMedium,
	models.LevelHigh,
	models.LevelNoData,
}

func TestStoppedWinsOverEverything(t *testing.T) {
	// running==0 takes precedence regardless of how hot the service looks
	for _, cpu := range allLevels {
		for _, mem := range allLevels {
			if got := Recommend(cpu, mem, 0); got != MsgNoRunning {
				t.Errorf("Recommend(%s, %s, 0) = %q, want idle message", cpu, mem, got)
			}
		}
	}
}

func TestCPUBottleneckBeatsIdleMemory(t *testing.T) {
	// (high, low) satisfies both the CPU-bottleneck rule and the idle-memory
	// rule; rule order makes the bottleneck win.
	if got := Recommend(models.LevelHigh, models.LevelLow, 5); got != MsgCPUHigh {
		t.Errorf("Recommend(high, low, 5) = %q, want CPU bottleneck message", got)
	}
	if got := Recommend(models.LevelHigh, models.LevelMedium, 1); got != MsgCPUHigh {
		t.Errorf("Recommend(high, medium, 1) = %q, want CPU bottleneck message", got)
	}
}

func TestMemoryPressure(t *testing.T) {
	// High memory flags OOM risk whatever the CPU level (once rule 2 passed)
	if got := Recommend(models.LevelHigh, models.LevelHigh, 2); got != MsgMemHigh {
		t.Errorf("Recommend(high, high, 2) = %q, want memory pressure message", got)
	}
	if got := Recommend(models.LevelMedium, models.LevelHigh, 2); got != MsgMemHigh {
		t.Errorf("Recommend(medium, high, 2) = %q, want memory pressure message", got)
	}
	if got := Recommend(models.LevelNoData, models.LevelHigh, 2); got != MsgMemHigh {
		t.Errorf("Recommend(no_data, high, 2) = %q, want memory pressure message", got)
	}
}

func TestOverProvisioned(t *testing.T) {
	if got := Recommend(models.LevelLow, models.LevelLow, 2); got != MsgOversized {
		t.Errorf("Recommend(low, low, 2) = %q, want over-provisioned message", got)
	}
}

func TestAsymmetricIdle(t *testing.T) {
	if got := Recommend(models.LevelLow, models.LevelMedium, 1); got != MsgCPUIdle {
		t.Errorf("Recommend(low, medium, 1) = %q, want idle CPU message", got)
	}
	if got := Recommend(models.LevelMedium, models.LevelLow, 1); got != MsgMemIdle {
		t.Errorf("Recommend(medium, low, 1) = %q, want idle memory message", got)
	}
}

func TestIncompleteMetrics(t *testing.T) {
	if got := Recommend(models.LevelNoData, models.LevelNoData, 1); got != MsgNoData {
		t.Errorf("Recommend(no_data, no_data, 1) = %q, want incomplete metrics message", got)
	}
	if got := Recommend(models.LevelMedium, models.LevelNoData, 1); got != MsgNoData {
		t.Errorf("Recommend(medium, no_data, 1) = %q, want incomplete metrics message", got)
	}
	if got := Recommend(models.LevelNoData, models.LevelLow, 1); got != MsgNoData {
		t.Errorf("Recommend(no_data, low, 1) = %q, want incomplete metrics message", got)
	}
}

func TestBalancedDefault(t *testing.T) {
	if got := Recommend(models.LevelMedium, models.LevelMedium, 3); got != MsgBalanced {
		t.Errorf("Recommend(medium, medium, 3) = %q, want balanced message", got)
	}
}

func TestRecommendIsTotal(t *testing.T) {
	// Every level combination times {0, >0} running must produce a
	// non-empty action.
	for _, cpu := range allLevels {
		for _, mem := range allLevels {
			for _, running := range []int{0, 3} {
				if got := Recommend(cpu, mem, running); got == "" {
					t.Errorf("Recommend(%s, %s, %d) returned empty string", cpu, mem, running)
				}
			}
		}
	}
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name    string
		cpu     models.UtilizationLevel
		mem     models.UtilizationLevel
		running int
		want    string
	}{
		{"hot cpu cold memory", models.LevelHigh, models.LevelLow, 3, MsgCPUHigh},
		{"both idle", models.LevelLow, models.LevelLow, 2, MsgOversized},
		{"no metrics", models.LevelNoData, models.LevelNoData, 1, MsgNoData},
		{"stopped despite pressure", models.LevelHigh, models.LevelHigh, 0, MsgNoRunning},
	}

	for _, tc := range cases {
		if got := Recommend(tc.cpu, tc.mem, tc.running); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
