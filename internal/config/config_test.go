package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stunsched/stunsched/internal/domain"
)

const sampleYAML = `
agents:
  - name: alice
    performance: ["0.8", "1.2"]
  - name: bob
    groups: ["gpu"]
    performance: ["1.0", "1.0"]

tasks:
  - name: design
    id: design
    duration: ["1h", "2h"]
  - name: train
    id: train
    duration: ["30m", "1h"]
    group: gpu
    depends_on: ["design"]
`

func TestLoad_ParsesValidProject(t *testing.T) {
	p, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Agents) != 2 {
		t.Fatalf("len(Agents) = %d, want 2", len(p.Agents))
	}
	if len(p.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(p.Tasks))
	}
	if p.Tasks[1].Kind != domain.AssignGroup {
		t.Errorf("train task Kind = %v, want AssignGroup", p.Tasks[1].Kind)
	}
	if len(p.Tasks[1].Dependencies) != 1 {
		t.Errorf("train dependencies = %v, want 1 entry", p.Tasks[1].Dependencies)
	}
}

func TestLoad_DurationGrammarErrorsSurface(t *testing.T) {
	bad := `
agents:
  - name: alice
    performance: ["1", "1"]
tasks:
  - name: design
    duration: ["not-a-duration", "2h"]
`
	_, err := Load(strings.NewReader(bad))
	if err == nil {
		t.Fatalf("expected an error for a malformed duration")
	}
}

func TestLoad_ValidationErrorsPropagate(t *testing.T) {
	dup := `
agents:
  - name: alice
    performance: ["1", "1"]
  - name: alice
    performance: ["1", "1"]
tasks:
  - name: design
    duration: ["1h", "1h"]
`
	_, err := Load(strings.NewReader(dup))
	if err == nil {
		t.Fatalf("expected a duplicate-agent validation error")
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want a *domain.ValidationError", err)
	}
	if !errors.Is(ve, domain.ErrDuplicateAgent) {
		t.Errorf("ValidationError kind = %v, want ErrDuplicateAgent", ve.Kind)
	}
}

func TestLoad_DedicatedAgentAssignment(t *testing.T) {
	yaml := `
agents:
  - name: alice
    performance: ["1", "1"]
tasks:
  - name: design
    agent: alice
    duration: ["1h", "1h"]
`
	p, err := Load(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Tasks[0].Kind != domain.AssignAgent {
		t.Errorf("Kind = %v, want AssignAgent", p.Tasks[0].Kind)
	}
	if p.Tasks[0].AgentID != 0 {
		t.Errorf("AgentID = %d, want 0 (alice)", p.Tasks[0].AgentID)
	}
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var src domain.ProjectSource = FileSource{Path: path}
	p, err := src.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Agents) != 2 {
		t.Fatalf("len(Agents) = %d, want 2", len(p.Agents))
	}
}

func TestFileSource_LoadMissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "does-not-exist.yaml")}
	if _, err := src.Load(); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
