package stun

import "testing"

func TestInitialSchedule_RespectsDependencies(t *testing.T) {
	sp := linearChainParams(t)
	s := InitialSchedule(sp)

	if len(s) != sp.NumTasks() {
		t.Fatalf("len(schedule) = %d, want %d", len(s), sp.NumTasks())
	}

	position := make(map[int]int, len(s))
	for i, item := range s {
		position[item.TaskID] = i
	}
	for t2 := 0; t2 < sp.NumTasks(); t2++ {
		for _, dep := range sp.Dependencies(t2) {
			if position[dep] >= position[t2] {
				t.Errorf("task %d scheduled before its dependency %d", t2, dep)
			}
		}
	}
}

func TestInitialSchedule_AssignsEligibleAgents(t *testing.T) {
	sp := linearChainParams(t)
	s := InitialSchedule(sp)
	for _, item := range s {
		found := false
		for _, a := range sp.AvailableAgents(item.TaskID) {
			if a == item.AgentID {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("task %d assigned ineligible agent %d", item.TaskID, item.AgentID)
		}
	}
}

func TestSchedule_CloneIsIndependent(t *testing.T) {
	sp := twoIndependentParams(t)
	s := InitialSchedule(sp)
	clone := s.Clone()
	clone[0].AgentID = clone[0].AgentID + 100

	if s[0].AgentID == clone[0].AgentID {
		t.Errorf("mutating clone affected original schedule")
	}
}
