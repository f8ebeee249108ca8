package domain

import (
	"errors"
	"testing"
)

func twoAgents() []AgentInput {
	return []AgentInput{
		{Name: "Bob", PerformanceMin: 1, PerformanceMax: 1},
		{Name: "Jack", PerformanceMin: 1, PerformanceMax: 1},
	}
}

func TestNewProject_Basic(t *testing.T) {
	tasks := []TaskInput{
		{Name: "T1", DurationMinSeconds: 3600, DurationMaxSeconds: 3600},
		{Name: "T2", DurationMinSeconds: 3600, DurationMaxSeconds: 3600},
	}
	p, err := NewProject(twoAgents(), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Agents) != 2 || len(p.Tasks) != 2 {
		t.Fatalf("unexpected shape: %+v", p)
	}
}

func TestNewProject_DuplicateAgent(t *testing.T) {
	agents := []AgentInput{
		{Name: "Bob", PerformanceMin: 1, PerformanceMax: 1},
		{Name: "Bob", PerformanceMin: 1, PerformanceMax: 1},
	}
	tasks := []TaskInput{{Name: "T1", DurationMinSeconds: 1, DurationMaxSeconds: 1}}
	_, err := NewProject(agents, tasks)
	if !errors.Is(err, ErrDuplicateAgent) {
		t.Fatalf("expected ErrDuplicateAgent, got %v", err)
	}
}

func TestNewProject_DependencyCycle(t *testing.T) {
	tasks := []TaskInput{
		{Name: "T1", ID: "t1", DurationMinSeconds: 1, DurationMaxSeconds: 1, DependsOn: []string{"t2"}},
		{Name: "T2", ID: "t2", DurationMinSeconds: 1, DurationMaxSeconds: 1, DependsOn: []string{"t1"}},
	}
	_, err := NewProject(twoAgents(), tasks)
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}
}

func TestNewProject_UnknownDependency(t *testing.T) {
	tasks := []TaskInput{
		{Name: "T1", DurationMinSeconds: 1, DurationMaxSeconds: 1, DependsOn: []string{"ghost"}},
	}
	_, err := NewProject(twoAgents(), tasks)
	if !errors.Is(err, ErrUnknownDependency) {
		t.Fatalf("expected ErrUnknownDependency, got %v", err)
	}
}

func TestNewProject_AmbiguousAssignment(t *testing.T) {
	tasks := []TaskInput{
		{
			Name: "T1", DurationMinSeconds: 1, DurationMaxSeconds: 1,
			GroupNames: []string{"gpu"}, DedicatedAgent: "Bob",
		},
	}
	_, err := NewProject(twoAgents(), tasks)
	if !errors.Is(err, ErrAmbiguousAssignment) {
		t.Fatalf("expected ErrAmbiguousAssignment, got %v", err)
	}
}

func TestNewProject_GroupRouting(t *testing.T) {
	agents := []AgentInput{
		{Name: "A", Groups: []string{"x"}, PerformanceMin: 1, PerformanceMax: 1},
		{Name: "B", Groups: []string{"y"}, PerformanceMin: 1, PerformanceMax: 1},
		{Name: "C", PerformanceMin: 1, PerformanceMax: 1}, // universal
	}
	tasks := []TaskInput{
		{Name: "T", DurationMinSeconds: 1, DurationMaxSeconds: 1, GroupNames: []string{"x"}},
	}
	p, err := NewProject(agents, tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for a, agent := range p.Agents {
		eligible := CanWorkOn(agent, p.Tasks[0], a)
		want := agent.Name != "B"
		if eligible != want {
			t.Errorf("agent %s eligibility = %v, want %v", agent.Name, eligible, want)
		}
	}
}

func TestNewProject_NoSuitableAgent(t *testing.T) {
	agents := []AgentInput{
		{Name: "B", Groups: []string{"y"}, PerformanceMin: 1, PerformanceMax: 1},
	}
	tasks := []TaskInput{
		{Name: "T", DurationMinSeconds: 1, DurationMaxSeconds: 1, GroupNames: []string{"x"}},
	}
	_, err := NewProject(agents, tasks)
	if !errors.Is(err, ErrNoSuitableAgent) {
		t.Fatalf("expected ErrNoSuitableAgent, got %v", err)
	}
}

func TestNewProject_SubtaskChaining(t *testing.T) {
	tasks := []TaskInput{
		{Name: "T1", ID: "t1", DurationMinSeconds: 1, DurationMaxSeconds: 1},
		{Name: "T2", ID: "t2", DurationMinSeconds: 1, DurationMaxSeconds: 1},
		{Name: "Parent", ID: "p", DurationMinSeconds: 1, DurationMaxSeconds: 1, Subtasks: []string{"t1", "t2"}},
	}
	p, err := NewProject(twoAgents(), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// t2 (index 1) implicitly depends on t1 (index 0).
	deps := p.Tasks[1].Dependencies
	if len(deps) != 1 || deps[0] != 0 {
		t.Fatalf("expected t2 to depend on t1, got %v", deps)
	}
}
