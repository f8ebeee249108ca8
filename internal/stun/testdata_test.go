package stun

import (
	"testing"

	"github.com/stunsched/stunsched/internal/domain"
)

// linearChainParams builds a 4-task linear chain (0<-1<-2<-3) with two
// universal agents of equal performance, for tests that don't care
// about group routing.
func linearChainParams(t *testing.T) *ScheduleParams {
	t.Helper()
	p, err := domain.NewProject(
		[]domain.AgentInput{
			{Name: "alice", PerformanceMin: 1, PerformanceMax: 1},
			{Name: "bob", PerformanceMin: 1, PerformanceMax: 1},
		},
		[]domain.TaskInput{
			{Name: "t0", ID: "t0", DurationMinSeconds: 10, DurationMaxSeconds: 10},
			{Name: "t1", ID: "t1", DurationMinSeconds: 10, DurationMaxSeconds: 10, DependsOn: []string{"t0"}},
			{Name: "t2", ID: "t2", DurationMinSeconds: 10, DurationMaxSeconds: 10, DependsOn: []string{"t1"}},
			{Name: "t3", ID: "t3", DurationMinSeconds: 10, DurationMaxSeconds: 10, DependsOn: []string{"t2"}},
		},
	)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	sp, err := NewScheduleParams(p)
	if err != nil {
		t.Fatalf("NewScheduleParams: %v", err)
	}
	return sp
}

// singleTaskParams builds a one-task, one-agent project, for edge-case
// tests around degenerate mutation/scheduling.
func singleTaskParams(t *testing.T) *ScheduleParams {
	t.Helper()
	p, err := domain.NewProject(
		[]domain.AgentInput{
			{Name: "alice", PerformanceMin: 1, PerformanceMax: 1},
		},
		[]domain.TaskInput{
			{Name: "t0", DurationMinSeconds: 10, DurationMaxSeconds: 10},
		},
	)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	sp, err := NewScheduleParams(p)
	if err != nil {
		t.Fatalf("NewScheduleParams: %v", err)
	}
	return sp
}

// fanOutParams builds six tasks across three agents of differing
// performance, with enough independent branches that the initial
// always-pick-first-agent schedule is not makespan-optimal, giving the
// optimizer real room to improve.
func fanOutParams(t *testing.T) *ScheduleParams {
	t.Helper()
	p, err := domain.NewProject(
		[]domain.AgentInput{
			{Name: "fast", PerformanceMin: 2, PerformanceMax: 2},
			{Name: "medium", PerformanceMin: 1, PerformanceMax: 1},
			{Name: "slow", PerformanceMin: 0.5, PerformanceMax: 0.5},
		},
		[]domain.TaskInput{
			{Name: "root", ID: "root", DurationMinSeconds: 5, DurationMaxSeconds: 5},
			{Name: "a1", ID: "a1", DurationMinSeconds: 20, DurationMaxSeconds: 20, DependsOn: []string{"root"}},
			{Name: "a2", ID: "a2", DurationMinSeconds: 20, DurationMaxSeconds: 20, DependsOn: []string{"root"}},
			{Name: "a3", ID: "a3", DurationMinSeconds: 20, DurationMaxSeconds: 20, DependsOn: []string{"root"}},
			{Name: "a4", ID: "a4", DurationMinSeconds: 15, DurationMaxSeconds: 15, DependsOn: []string{"root"}},
			{Name: "join", ID: "join", DurationMinSeconds: 5, DurationMaxSeconds: 5, DependsOn: []string{"a1", "a2", "a3", "a4"}},
		},
	)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	sp, err := NewScheduleParams(p)
	if err != nil {
		t.Fatalf("NewScheduleParams: %v", err)
	}
	return sp
}

// twoIndependentParams builds two independent tasks, two agents, for
// tests that want a trivially balanceable workload.
func twoIndependentParams(t *testing.T) *ScheduleParams {
	t.Helper()
	p, err := domain.NewProject(
		[]domain.AgentInput{
			{Name: "alice", PerformanceMin: 1, PerformanceMax: 1},
			{Name: "bob", PerformanceMin: 1, PerformanceMax: 1},
		},
		[]domain.TaskInput{
			{Name: "t0", DurationMinSeconds: 10, DurationMaxSeconds: 10},
			{Name: "t1", DurationMinSeconds: 10, DurationMaxSeconds: 10},
		},
	)
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	sp, err := NewScheduleParams(p)
	if err != nil {
		t.Fatalf("NewScheduleParams: %v", err)
	}
	return sp
}
