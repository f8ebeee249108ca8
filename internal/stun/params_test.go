package stun

import (
	"testing"

	"github.com/stunsched/stunsched/internal/domain"
)

func TestNewScheduleParams_PacksFields(t *testing.T) {
	sp := linearChainParams(t)

	if sp.NumTasks() != 4 {
		t.Fatalf("NumTasks() = %d, want 4", sp.NumTasks())
	}
	if sp.NumAgents() != 2 {
		t.Fatalf("NumAgents() = %d, want 2", sp.NumAgents())
	}
	if got := sp.AgentPerformance(0); got != 1 {
		t.Errorf("AgentPerformance(0) = %v, want 1", got)
	}
	if deps := sp.Dependencies(1); len(deps) != 1 || deps[0] != 0 {
		t.Errorf("Dependencies(1) = %v, want [0]", deps)
	}
	if avail := sp.AvailableAgents(0); len(avail) != 2 {
		t.Errorf("AvailableAgents(0) = %v, want both agents", avail)
	}
}

func TestNewScheduleParams_GroupRoutingNarrowsEligibility(t *testing.T) {
	p, err := domain.NewProject(
		[]domain.AgentInput{
			{Name: "alice", Groups: []string{"gpu"}, PerformanceMin: 1, PerformanceMax: 1},
			{Name: "bob", PerformanceMin: 1, PerformanceMax: 1},
		},
		[]domain.TaskInput{
			{Name: "train", DurationMinSeconds: 10, DurationMaxSeconds: 10, Kind: domain.AssignGroup, GroupNames: []string{"gpu"}},
			{Name: "cleanup", DurationMinSeconds: 5, DurationMaxSeconds: 5},
		},
	)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	sp, err := NewScheduleParams(p)
	if err != nil {
		t.Fatalf("NewScheduleParams: %v", err)
	}

	// bob is universal (no groups), so he's eligible for every task that
	// isn't bound to a specific dedicated agent — including gated ones.
	avail := sp.AvailableAgents(0)
	if len(avail) != 2 {
		t.Errorf("AvailableAgents(train) = %v, want both alice and universal bob", avail)
	}

	cleanupAvail := sp.AvailableAgents(1)
	if len(cleanupAvail) != 1 || cleanupAvail[0] != 1 {
		t.Errorf("AvailableAgents(cleanup) = %v, want only bob (1) since alice is gated", cleanupAvail)
	}
}

func TestNewScheduleParams_DurationMultiplierNormalizes(t *testing.T) {
	sp := linearChainParams(t)
	if sp.DurationMultiplier() <= 0 {
		t.Fatalf("DurationMultiplier() = %v, want > 0", sp.DurationMultiplier())
	}
	for i := 0; i < sp.NumTasks(); i++ {
		if sp.TaskDuration(i)*sp.DurationMultiplier() != 10 {
			t.Errorf("task %d normalized duration doesn't round-trip", i)
		}
	}
}
