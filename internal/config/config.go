// Package config loads a project description from YAML into a
// validated domain.Project. It is the only package that knows the
// textual shape of a project file; everything downstream works with
// domain.Project and never sees YAML again.
package config

import (
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v2"

	"github.com/stunsched/stunsched/internal/domain"
	"github.com/stunsched/stunsched/internal/durationparse"
)

// FileSource implements domain.ProjectSource by reading and validating
// the project description at Path. It is the boundary cmd/stunsched
// uses instead of calling Load directly, so a future source (a fixture
// embedded at build time, a project fetched over HTTP) can be swapped
// in without changing any caller.
type FileSource struct {
	Path string
}

// Load satisfies domain.ProjectSource.
func (s FileSource) Load() (*domain.Project, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open project file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// rawProject mirrors the YAML shape: a flat "agents:" and "tasks:"
// list. The grammar is intentionally loose — only the fields below are
// recognized, unknown keys are ignored by yaml.v2's default decoding.
type rawProject struct {
	Agents []rawAgent `yaml:"agents"`
	Tasks  []rawTask  `yaml:"tasks"`
}

type rawAgent struct {
	Name        string   `yaml:"name"`
	Groups      []string `yaml:"groups"`
	Performance []string `yaml:"performance"` // ["min", "max"], each a plain number string
}

type rawTask struct {
	Name      string   `yaml:"name"`
	ID        string   `yaml:"id"`
	Duration  []string `yaml:"duration"` // ["min", "max"], each parsed by durationparse
	Group     string   `yaml:"group"`
	Groups    []string `yaml:"groups"`
	Agent     string   `yaml:"agent"`
	DependsOn []string `yaml:"depends_on"`
	Subtasks  []string `yaml:"subtasks"`
}

// Load decodes a YAML project description from r and validates it into
// a domain.Project via domain.NewProject — the same validation path as
// a project built programmatically.
//
// Note: go.yaml.in/yaml/v2's Unmarshal doesn't expose node line/column
// positions, so ValidationError.Pos is always the zero value for
// errors Load returns (unlike a hypothetical yaml.v3-node-based
// loader). Entity names in the error are still enough to locate the
// offending agent/task by name.
func Load(r io.Reader) (*domain.Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var raw rawProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse project yaml: %w", err)
	}

	agents := make([]domain.AgentInput, len(raw.Agents))
	for i, a := range raw.Agents {
		perfMin, perfMax, err := parsePerformancePair(a.Performance)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", a.Name, err)
		}
		agents[i] = domain.AgentInput{
			Name:           a.Name,
			Groups:         a.Groups,
			PerformanceMin: perfMin,
			PerformanceMax: perfMax,
		}
	}

	tasks := make([]domain.TaskInput, len(raw.Tasks))
	for i, t := range raw.Tasks {
		durMin, durMax, err := parseDurationPair(t.Duration)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}

		given := 0
		for _, set := range []bool{t.Group != "", len(t.Groups) > 0, t.Agent != ""} {
			if set {
				given++
			}
		}
		if given > 1 {
			return nil, &domain.ValidationError{Kind: domain.ErrAmbiguousAssignment, Entity: t.Name}
		}
		kind, groupNames, dedicated := resolveAssignment(t)

		tasks[i] = domain.TaskInput{
			Name:               t.Name,
			ID:                 t.ID,
			DurationMinSeconds: durMin,
			DurationMaxSeconds: durMax,
			Kind:               kind,
			GroupNames:         groupNames,
			DedicatedAgent:     dedicated,
			DependsOn:          t.DependsOn,
			Subtasks:           t.Subtasks,
		}
	}

	return domain.NewProject(agents, tasks)
}

// resolveAssignment maps the YAML's separate group/groups/agent fields
// onto domain's single Kind discriminant. Load rejects a task naming
// more than one of them (ErrAmbiguousAssignment) before calling this,
// since domain.NewProject only sees the resolved group list and cannot
// tell "group" and "groups" apart.
func resolveAssignment(t rawTask) (kind domain.AssignKind, groupNames []string, dedicated string) {
	switch {
	case t.Agent != "":
		return domain.AssignAgent, nil, t.Agent
	case len(t.Groups) > 0:
		return domain.AssignGroups, t.Groups, ""
	case t.Group != "":
		return domain.AssignGroup, []string{t.Group}, ""
	default:
		return domain.AssignNone, nil, ""
	}
}

func parseDurationPair(d []string) (min, max float64, err error) {
	if len(d) != 2 {
		return 0, 0, fmt.Errorf("duration must be a [min, max] pair, got %d values", len(d))
	}
	minSecs, err := durationparse.Parse(d[0])
	if err != nil {
		return 0, 0, fmt.Errorf("duration min: %w", err)
	}
	maxSecs, err := durationparse.Parse(d[1])
	if err != nil {
		return 0, 0, fmt.Errorf("duration max: %w", err)
	}
	return float64(minSecs), float64(maxSecs), nil
}

// parsePerformancePair accepts plain numeric strings ("0.5"), since
// performance has no unit grammar of its own.
func parsePerformancePair(p []string) (min, max float64, err error) {
	if len(p) != 2 {
		return 0, 0, fmt.Errorf("performance must be a [min, max] pair, got %d values", len(p))
	}
	if _, err := fmt.Sscanf(p[0], "%g", &min); err != nil {
		return 0, 0, fmt.Errorf("performance min %q: %w", p[0], err)
	}
	if _, err := fmt.Sscanf(p[1], "%g", &max); err != nil {
		return 0, 0, fmt.Errorf("performance max %q: %w", p[1], err)
	}
	return min, max, nil
}
