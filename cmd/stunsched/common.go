package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stunsched/stunsched/internal/config"
	"github.com/stunsched/stunsched/internal/domain"
	"github.com/stunsched/stunsched/internal/predict"
	"github.com/stunsched/stunsched/internal/stunevents"
)

// loadProject reads and validates the project description at path via
// domain.ProjectSource, the boundary every project-loading caller goes
// through rather than calling config.Load directly.
func loadProject(path string) (*domain.Project, error) {
	var src domain.ProjectSource = config.FileSource{Path: path}
	p, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return p, nil
}

// printEvents renders a run's event bus as plain line-oriented progress
// text until Finished, mirroring the bus's own poll semantics: each
// Next() call either returns an event or times out, and a timeout just
// means "nothing new yet."
func printEvents(bus *stunevents.Bus) {
	for {
		ev, ok := bus.Next()
		if !ok {
			continue
		}
		switch {
		case ev.Progress != nil:
			fmt.Fprintf(os.Stdout, "epoch %d  idle-adjusted progress %.1f%%  best makespan %ds\n",
				ev.Progress.Epoch, ev.Progress.Progress*100, ev.Progress.MakespanSeconds)
		case ev.Complete != nil:
			fmt.Fprintf(os.Stdout, "converged: makespan %ds\n", ev.Complete.MakespanSeconds)
		case ev.Simple != nil:
			if ev.Simple.Kind == stunevents.Finished {
				return
			}
			fmt.Fprintf(os.Stdout, "%s\n", ev.Simple.Kind)
		}
	}
}

// printSchedule renders the final schedule as either a table or JSON.
func printSchedule(sched predict.OptimizedSchedule, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sched)
	}

	fmt.Fprintf(os.Stdout, "makespan: %.1fs\n", sched.MakespanSeconds)
	fmt.Fprintf(os.Stdout, "%-4s %-24s %-16s %10s %10s\n", "#", "task", "agent", "start(s)", "dur(s)")
	for _, item := range sched.Items {
		fmt.Fprintf(os.Stdout, "%-4d %-24s %-16s %10.1f %10.1f\n",
			item.Priority, item.Task, item.Agent, item.ExpectedStartSeconds, item.ExpectedDurationSeconds)
	}
	return nil
}
