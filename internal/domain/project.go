package domain

import "sort"

// ─── Group ──────────────────────────────────────────────────────────────────

// Groups is a project's capability-tag table. A group's index is its
// position in the slice, assigned in first-appearance order by whatever
// constructs the Project (internal/config, or a caller building one by
// hand for tests).
type Groups []string

// ─── Agent ──────────────────────────────────────────────────────────────────

// Agent is a worker capable of executing tasks. An agent with an empty
// GroupIDs set is "universal" — eligible for any task that isn't bound to
// a specific dedicated agent.
type Agent struct {
	Name            string
	GroupIDs        []int // sorted, unique; empty == universal
	PerformanceMin  float64
	PerformanceMax  float64
}

// Universal reports whether the agent can work on any ungated task.
func (a Agent) Universal() bool { return len(a.GroupIDs) == 0 }

// HasGroup reports whether the agent carries the given group index.
func (a Agent) HasGroup(g int) bool {
	i := sort.SearchInts(a.GroupIDs, g)
	return i < len(a.GroupIDs) && a.GroupIDs[i] == g
}

// AveragePerformance returns (min+max)/2, the figure ScheduleParams packs.
func (a Agent) AveragePerformance() float64 {
	return (a.PerformanceMin + a.PerformanceMax) / 2
}

// ─── Task ───────────────────────────────────────────────────────────────────

// AssignKind discriminates how a task selects its eligible agents.
// Exactly one of AssignGroup, AssignGroups, AssignAgent applies, or
// AssignNone, in which case only universal agents are eligible.
type AssignKind int

const (
	AssignNone AssignKind = iota
	AssignGroup
	AssignGroups
	AssignAgent
)

// Task is a unit of work with a duration interval, a precedence set, and
// an assignment constraint on which agents may execute it.
type Task struct {
	Name string
	ID   string // optional stable id, used for dependency references

	DurationMin float64 // seconds
	DurationMax float64 // seconds

	Kind     AssignKind
	GroupIDs []int // populated for AssignGroup (len 1) and AssignGroups
	AgentID  int   // populated for AssignAgent

	Dependencies []int // sorted, unique predecessor task indices
	Subtasks     []int // child task indices, in parse order
}

// AverageDuration returns (min+max)/2, the figure ScheduleParams packs
// before normalization.
func (t Task) AverageDuration() float64 {
	return (t.DurationMin + t.DurationMax) / 2
}

// ─── Project ────────────────────────────────────────────────────────────────

// Project is the fully validated, immutable input to the STUN optimizer.
// Every Project returned by NewProject or config.Load satisfies the
// invariants documented on the package: unique names/ids, an acyclic
// dependency graph, exclusive assignment kinds, and at least one eligible
// agent per task.
type Project struct {
	Groups Groups
	Agents []Agent
	Tasks  []Task
}

// CanWorkOn reports whether agent a is eligible to execute task t, per
// the rule in SPEC_FULL.md §4.1:
//   - a dedicated agent id on the task restricts eligibility to that agent
//   - otherwise a universal agent is always eligible
//   - otherwise the agent's group set must be a superset of the task's
func CanWorkOn(a Agent, t Task, agentIdx int) bool {
	if t.Kind == AssignAgent {
		return t.AgentID == agentIdx
	}
	if a.Universal() {
		return true
	}
	if t.Kind == AssignNone {
		return false
	}
	for _, g := range t.GroupIDs {
		if !a.HasGroup(g) {
			return false
		}
	}
	return true
}

// AgentInput and TaskInput are the pre-resolution shapes NewProject
// validates and assembles into a Project. internal/config builds these
// from parsed YAML; callers (including tests) may build them directly.
type AgentInput struct {
	Name           string
	Groups         []string // group names; new names are appended to the project's Groups table
	PerformanceMin float64
	PerformanceMax float64
}

type TaskInput struct {
	Name string
	ID   string // optional

	DurationMinSeconds float64
	DurationMaxSeconds float64

	Kind        AssignKind
	GroupNames  []string // for AssignGroup (len 1) / AssignGroups
	DedicatedAgent string // agent name, for AssignAgent

	DependsOn []string // task ids or names, resolved against ID then Name
	Subtasks  []string // child task ids or names, in order
}

// NewProject validates and assembles a Project from raw inputs, assigning
// group indices in first-appearance order. It returns the first
// *ValidationError it encounters.
func NewProject(agents []AgentInput, tasks []TaskInput) (*Project, error) {
	groupIndex := map[string]int{}
	var groups Groups

	groupID := func(name string) int {
		if idx, ok := groupIndex[name]; ok {
			return idx
		}
		idx := len(groups)
		groupIndex[name] = idx
		groups = append(groups, name)
		return idx
	}

	seenAgent := map[string]bool{}
	outAgents := make([]Agent, 0, len(agents))
	agentIndex := map[string]int{}
	for _, in := range agents {
		if seenAgent[in.Name] {
			return nil, newValidationError(ErrDuplicateAgent, in.Name)
		}
		seenAgent[in.Name] = true

		if in.PerformanceMin <= 0 || in.PerformanceMax <= 0 {
			return nil, newValidationError(ErrNonPositivePerformance, in.Name)
		}
		if in.PerformanceMin > in.PerformanceMax {
			return nil, newValidationError(ErrInvertedPerformance, in.Name)
		}

		ids := make([]int, 0, len(in.Groups))
		for _, g := range in.Groups {
			ids = append(ids, groupID(g))
		}
		sort.Ints(ids)
		ids = dedupSorted(ids)

		agentIndex[in.Name] = len(outAgents)
		outAgents = append(outAgents, Agent{
			Name:           in.Name,
			GroupIDs:       ids,
			PerformanceMin: in.PerformanceMin,
			PerformanceMax: in.PerformanceMax,
		})
	}

	if len(outAgents) == 0 {
		return nil, newValidationError(ErrEmptyRequiredSection, "agents")
	}
	if len(tasks) == 0 {
		return nil, newValidationError(ErrEmptyRequiredSection, "tasks")
	}

	seenTaskID := map[string]bool{}
	taskByRef := map[string]int{} // id or name -> index
	outTasks := make([]Task, len(tasks))
	for i, in := range tasks {
		if in.ID != "" {
			if seenTaskID[in.ID] {
				return nil, newValidationError(ErrDuplicateTaskID, in.ID)
			}
			seenTaskID[in.ID] = true
			taskByRef[in.ID] = i
		}
		if _, exists := taskByRef[in.Name]; !exists {
			taskByRef[in.Name] = i
		}

		if in.DurationMinSeconds <= 0 || in.DurationMaxSeconds <= 0 {
			return nil, newValidationError(ErrInvalidDuration, in.Name)
		}
		if in.DurationMinSeconds > in.DurationMaxSeconds {
			return nil, newValidationError(ErrInvertedDuration, in.Name)
		}

		kindsSet := 0
		if len(in.GroupNames) > 0 {
			kindsSet++
		}
		if in.DedicatedAgent != "" {
			kindsSet++
		}
		if kindsSet > 1 {
			return nil, newValidationError(ErrAmbiguousAssignment, in.Name)
		}

		t := Task{
			Name:        in.Name,
			ID:          in.ID,
			DurationMin: in.DurationMinSeconds,
			DurationMax: in.DurationMaxSeconds,
		}

		switch {
		case in.DedicatedAgent != "":
			idx, ok := agentIndex[in.DedicatedAgent]
			if !ok {
				return nil, newValidationError(ErrNoSuitableAgent, in.Name)
			}
			t.Kind = AssignAgent
			t.AgentID = idx
		case len(in.GroupNames) == 1:
			t.Kind = AssignGroup
			t.GroupIDs = []int{groupID(in.GroupNames[0])}
		case len(in.GroupNames) > 1:
			t.Kind = AssignGroups
			ids := make([]int, 0, len(in.GroupNames))
			for _, g := range in.GroupNames {
				ids = append(ids, groupID(g))
			}
			sort.Ints(ids)
			t.GroupIDs = dedupSorted(ids)
		default:
			t.Kind = AssignNone
		}

		outTasks[i] = t
	}

	for i, in := range tasks {
		deps := make([]int, 0, len(in.DependsOn))
		for _, ref := range in.DependsOn {
			idx, ok := taskByRef[ref]
			if !ok {
				return nil, newValidationError(ErrUnknownDependency, ref)
			}
			deps = append(deps, idx)
		}

		subtasks := make([]int, 0, len(in.Subtasks))
		for _, ref := range in.Subtasks {
			idx, ok := taskByRef[ref]
			if !ok {
				return nil, newValidationError(ErrUnknownDependency, ref)
			}
			subtasks = append(subtasks, idx)
		}

		sort.Ints(deps)
		outTasks[i].Dependencies = dedupSorted(deps)
		outTasks[i].Subtasks = subtasks
	}

	// Subtasks chain sequentially: each inherits the previous as a
	// dependency by order of parsing (SPEC_FULL.md §3).
	for i := range outTasks {
		subs := outTasks[i].Subtasks
		for k := 1; k < len(subs); k++ {
			deps := append(outTasks[subs[k]].Dependencies, subs[k-1])
			sort.Ints(deps)
			outTasks[subs[k]].Dependencies = dedupSorted(deps)
		}
	}

	p := &Project{Groups: groups, Agents: outAgents, Tasks: outTasks}

	if err := checkAcyclic(p); err != nil {
		return nil, err
	}
	if err := checkEligibility(p); err != nil {
		return nil, err
	}

	return p, nil
}

func dedupSorted(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// checkAcyclic performs a DFS cycle detection over the dependency graph.
func checkAcyclic(p *Project) error {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(p.Tasks))

	var visit func(i int) error
	visit = func(i int) error {
		color[i] = gray
		for _, d := range p.Tasks[i].Dependencies {
			switch color[d] {
			case gray:
				return newValidationError(ErrDependencyCycle, p.Tasks[i].Name)
			case white:
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		color[i] = black
		return nil
	}

	for i := range p.Tasks {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkEligibility enforces invariant 3: every task that requires a group
// has at least one universal agent, or at least one agent possessing it;
// every dedicated-agent task references a real agent.
func checkEligibility(p *Project) error {
	for i, t := range p.Tasks {
		found := false
		for a, agent := range p.Agents {
			if CanWorkOn(agent, t, a) {
				found = true
				break
			}
		}
		if !found {
			return newValidationError(ErrNoSuitableAgent, p.Tasks[i].Name)
		}
	}
	return nil
}
