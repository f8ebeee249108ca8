// Package predict is the public entry point the rest of the module
// drives the optimizer through: it turns a domain.Project and a
// stun.Tuning into a running Optimizer, translates the winning
// internal/stun.Schedule back into task/agent names, and reports
// expected start times by simulating the same makespan computation the
// optimizer already uses.
package predict

import (
	"github.com/stunsched/stunsched/internal/domain"
	"github.com/stunsched/stunsched/internal/stun"
)

// ScheduleItem is one entry of an OptimizedSchedule: a task assigned to
// an agent, in dispatch order, with its expected timing.
type ScheduleItem struct {
	Task     string
	Agent    string
	Priority int

	ExpectedStartSeconds    float64
	ExpectedDurationSeconds float64
}

// OptimizedSchedule is the externally-facing result of a completed run:
// stun.Schedule translated from indices back to names, in
// spec.md §6's exact shape.
type OptimizedSchedule struct {
	MakespanSeconds float64
	Items           []ScheduleItem
}

// toOptimizedSchedule walks sched in dispatch order, re-simulating
// finish times exactly as stun.Makespan does (in the same normalized
// units), then scales to real seconds once at the end, and resolves
// indices to the project's names so a caller never needs to see
// stun.Schedule.
func toOptimizedSchedule(p *domain.Project, sp *stun.ScheduleParams, sched stun.Schedule, makespanSeconds float64) OptimizedSchedule {
	mult := sp.DurationMultiplier()
	taskDone := make([]float64, sp.NumTasks())
	agentFree := make([]float64, sp.NumAgents())

	items := make([]ScheduleItem, len(sched))
	for priority, it := range sched {
		var depFinish float64
		for _, d := range sp.Dependencies(it.TaskID) {
			if taskDone[d] > depFinish {
				depFinish = taskDone[d]
			}
		}
		duration := sp.TaskDuration(it.TaskID) / sp.AgentPerformance(it.AgentID)

		start := depFinish
		if agentFree[it.AgentID] > start {
			start = agentFree[it.AgentID]
		}
		finish := start + duration

		taskDone[it.TaskID] = finish
		agentFree[it.AgentID] = finish

		items[priority] = ScheduleItem{
			Task:                    p.Tasks[it.TaskID].Name,
			Agent:                   p.Agents[it.AgentID].Name,
			Priority:                priority,
			ExpectedStartSeconds:    start * mult,
			ExpectedDurationSeconds: duration * mult,
		}
	}

	return OptimizedSchedule{
		MakespanSeconds: makespanSeconds,
		Items:           items,
	}
}
