package stun

import "testing"

func TestMakespan_LinearChainSumsDurations(t *testing.T) {
	sp := linearChainParams(t)
	m := NewMakespan(sp)
	s := InitialSchedule(sp)

	got := m.Compute(s)
	// 4 tasks of 10s each on a single dependency chain: one agent does
	// all the work serially regardless of assignment, since every task
	// waits on its predecessor's finish time.
	want := 40.0 / sp.DurationMultiplier()
	if got != want {
		t.Errorf("Compute = %v, want %v", got, want)
	}
}

func TestMakespan_IndependentTasksParallelize(t *testing.T) {
	sp := twoIndependentParams(t)
	m := NewMakespan(sp)

	s := Schedule{
		{TaskID: 0, AgentID: 0},
		{TaskID: 1, AgentID: 1},
	}
	got := m.Compute(s)
	want := 10.0 / sp.DurationMultiplier()
	if got != want {
		t.Errorf("two independent tasks on two agents: Compute = %v, want %v", got, want)
	}
}

func TestMakespan_SameAgentSerializes(t *testing.T) {
	sp := twoIndependentParams(t)
	m := NewMakespan(sp)

	s := Schedule{
		{TaskID: 0, AgentID: 0},
		{TaskID: 1, AgentID: 0},
	}
	got := m.Compute(s)
	want := 20.0 / sp.DurationMultiplier()
	if got != want {
		t.Errorf("two tasks on one agent: Compute = %v, want %v", got, want)
	}
}

func TestMakespan_ComputeHasNoHiddenState(t *testing.T) {
	sp := twoIndependentParams(t)
	m := NewMakespan(sp)
	s := InitialSchedule(sp)

	first := m.Compute(s)
	second := m.Compute(s)
	if first != second {
		t.Errorf("Compute is not idempotent: %v then %v", first, second)
	}
}
