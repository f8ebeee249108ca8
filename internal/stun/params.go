// Package stun implements the Stochastic Tunneling schedule optimizer:
// the packed, read-only view of a project (ScheduleParams), the
// dependency-respecting seed schedule, the makespan cost function, the
// neighbor-generation mutator, the adaptive temperature driver, the
// per-neighborhood STUN acceptance loop, the per-job trajectory, the
// multi-job coordinator, and the on-line progress-curve fitter.
//
// Nothing in this package imports internal/config, internal/api, or any
// other collaborator — ScheduleParams is built once from a
// domain.Project and is read-only for the rest of the optimizer's life
// (SPEC_FULL.md §5).
package stun

import (
	"fmt"

	"github.com/stunsched/stunsched/internal/domain"
)

// NoSuitableAgentError reports that a task's eligible-agent set would be
// empty. domain.NewProject already rejects such projects before the
// optimizer ever runs (ErrNoSuitableAgent); ScheduleParams re-derives
// eligibility independently and returns this error rather than trust a
// caller that built a Project by hand, bypassing validation.
type NoSuitableAgentError struct {
	TaskIndex int
	TaskName  string
}

func (e *NoSuitableAgentError) Error() string {
	return fmt.Sprintf("no suitable agent for task %q (index %d)", e.TaskName, e.TaskIndex)
}

// ScheduleParams is the cache-packed, immutable view of a Project the
// optimizer actually operates on. Two-dimensional fields
// (AvailableAgents, Dependencies) are a flat buffer plus per-task
// offsets; slices returned by their accessors are views into that
// buffer and must not be retained across mutation of the buffer (the
// buffer itself is never mutated post-construction, so in practice the
// views are safe to hold for the ScheduleParams' lifetime).
type ScheduleParams struct {
	numAgents int
	numTasks  int

	agentPerformance []float64
	taskDuration     []float64 // normalized
	durationMultiplier float64

	availableAgentsFlat    []int
	availableAgentsOffsets []int // len numTasks+1

	dependenciesFlat    []int
	dependenciesOffsets []int // len numTasks+1

	taskNames []string // for diagnostics only
}

// NewScheduleParams packs a validated Project into a ScheduleParams.
func NewScheduleParams(p *domain.Project) (*ScheduleParams, error) {
	numAgents := len(p.Agents)
	numTasks := len(p.Tasks)

	sp := &ScheduleParams{
		numAgents:        numAgents,
		numTasks:         numTasks,
		agentPerformance: make([]float64, numAgents),
		taskDuration:     make([]float64, numTasks),
		taskNames:        make([]string, numTasks),
	}

	for a, agent := range p.Agents {
		sp.agentPerformance[a] = agent.AveragePerformance()
	}

	var durationSum float64
	for _, t := range p.Tasks {
		durationSum += t.AverageDuration()
	}
	sp.durationMultiplier = durationSum / float64(numAgents)
	if sp.durationMultiplier <= 0 {
		sp.durationMultiplier = 1
	}

	sp.availableAgentsOffsets = make([]int, numTasks+1)
	sp.dependenciesOffsets = make([]int, numTasks+1)

	for t, task := range p.Tasks {
		sp.taskNames[t] = task.Name
		sp.taskDuration[t] = task.AverageDuration() / sp.durationMultiplier

		before := len(sp.availableAgentsFlat)
		for a, agent := range p.Agents {
			if domain.CanWorkOn(agent, task, a) {
				sp.availableAgentsFlat = append(sp.availableAgentsFlat, a)
			}
		}
		sp.availableAgentsOffsets[t] = before
		if len(sp.availableAgentsFlat) == before {
			return nil, &NoSuitableAgentError{TaskIndex: t, TaskName: task.Name}
		}

		depBefore := len(sp.dependenciesFlat)
		sp.dependenciesFlat = append(sp.dependenciesFlat, task.Dependencies...)
		sp.dependenciesOffsets[t] = depBefore
	}
	sp.availableAgentsOffsets[numTasks] = len(sp.availableAgentsFlat)
	sp.dependenciesOffsets[numTasks] = len(sp.dependenciesFlat)

	return sp, nil
}

// NumTasks returns the number of tasks in the project.
func (sp *ScheduleParams) NumTasks() int { return sp.numTasks }

// NumAgents returns the number of agents in the project.
func (sp *ScheduleParams) NumAgents() int { return sp.numAgents }

// AgentPerformance returns agent a's packed average performance.
func (sp *ScheduleParams) AgentPerformance(a int) float64 { return sp.agentPerformance[a] }

// TaskDuration returns task t's normalized average duration.
func (sp *ScheduleParams) TaskDuration(t int) float64 { return sp.taskDuration[t] }

// DurationMultiplier is the divisor used to normalize task durations;
// multiplying a normalized makespan by it recovers real seconds.
func (sp *ScheduleParams) DurationMultiplier() float64 { return sp.durationMultiplier }

// AvailableAgents returns the sorted slice of agent indices eligible to
// execute task t.
func (sp *ScheduleParams) AvailableAgents(t int) []int {
	return sp.availableAgentsFlat[sp.availableAgentsOffsets[t]:sp.availableAgentsOffsets[t+1]]
}

// Dependencies returns the sorted slice of predecessor task indices for
// task t.
func (sp *ScheduleParams) Dependencies(t int) []int {
	return sp.dependenciesFlat[sp.dependenciesOffsets[t]:sp.dependenciesOffsets[t+1]]
}

// TaskName returns task t's display name, for diagnostics.
func (sp *ScheduleParams) TaskName(t int) string { return sp.taskNames[t] }
