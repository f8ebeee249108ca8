package stun

// ScheduleItem pairs a task with the agent dispatched to run it.
// Order within a Schedule is significant — it is the dispatch order a
// simulation would use.
type ScheduleItem struct {
	TaskID  int
	AgentID int
}

// Schedule is an ordered sequence of ScheduleItem. A valid Schedule
// satisfies: for every item, all predecessors of TaskID occupy earlier
// positions, and AgentID is a member of ScheduleParams.AvailableAgents(TaskID).
type Schedule []ScheduleItem

// Clone returns an independent copy, used when a caller needs to retain
// a snapshot past the next mutation (OptimizerJob/Optimizer keep their
// own buffers precisely to avoid needing this in the hot path).
func (s Schedule) Clone() Schedule {
	cp := make(Schedule, len(s))
	copy(cp, s)
	return cp
}

// InitialSchedule produces one valid schedule from ScheduleParams via
// topological ordering: starting from the smallest-indexed unvisited
// task, depth-first-visit every predecessor before emitting the task
// itself, then assign the first eligible agent. The result is
// deterministic given ScheduleParams and always length NumTasks().
func InitialSchedule(sp *ScheduleParams) Schedule {
	n := sp.NumTasks()
	visited := make([]bool, n)
	out := make(Schedule, 0, n)

	var visit func(t int)
	visit = func(t int) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, d := range sp.Dependencies(t) {
			visit(d)
		}
		out = append(out, ScheduleItem{
			TaskID:  t,
			AgentID: sp.AvailableAgents(t)[0],
		})
	}

	for t := 0; t < n; t++ {
		visit(t)
	}
	return out
}
