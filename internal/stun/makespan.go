package stun

// Makespan computes the normalized makespan of a schedule. It owns two
// scratch buffers (taskDone, workDone) reset on every call, avoiding an
// allocation per evaluation — Compute runs once per STUN iteration.
type Makespan struct {
	sp       *ScheduleParams
	taskDone []float64
	workDone []float64
}

// NewMakespan allocates the scratch buffers for sp.
func NewMakespan(sp *ScheduleParams) *Makespan {
	return &Makespan{
		sp:       sp,
		taskDone: make([]float64, sp.NumTasks()),
		workDone: make([]float64, sp.NumAgents()),
	}
}

// Compute returns the schedule's makespan in normalized seconds
// (wall-seconds / ScheduleParams.DurationMultiplier). Real-seconds
// makespan is Compute(s) * sp.DurationMultiplier().
func (m *Makespan) Compute(s Schedule) float64 {
	for i := range m.taskDone {
		m.taskDone[i] = 0
	}
	for i := range m.workDone {
		m.workDone[i] = 0
	}

	for _, item := range s {
		t, a := item.TaskID, item.AgentID

		var depFinish float64
		for _, d := range m.sp.Dependencies(t) {
			if m.taskDone[d] > depFinish {
				depFinish = m.taskDone[d]
			}
		}

		duration := m.sp.TaskDuration(t) / m.sp.AgentPerformance(a)
		finish := depFinish
		if m.workDone[a] > finish {
			finish = m.workDone[a]
		}
		finish += duration

		m.taskDone[t] = finish
		m.workDone[a] = finish
	}

	var max float64
	for _, w := range m.workDone {
		if w > max {
			max = w
		}
	}
	return max
}
