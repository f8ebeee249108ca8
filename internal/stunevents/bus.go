// Package stunevents carries progress notifications out of a running
// Optimizer without coupling it to any particular consumer (HTTP
// long-poll, CLI progress bar, log line). It's a single-producer,
// single-consumer bounded event queue: lifecycle events (Start, Done,
// Complete, Finished) are delivered exactly once each, in publish
// order; Progress events coalesce to the latest value so a slow
// consumer never backs up behind stale ones.
package stunevents

import (
	"sync"
	"time"
)

// Kind tags the three optimizer lifecycle events that carry no payload
// beyond their occurrence.
type Kind int

const (
	// ScheduleOptimizationStart is emitted once, before the first job
	// begins iterating.
	ScheduleOptimizationStart Kind = iota
	// ScheduleOptimizationDone is emitted once convergence is detected,
	// immediately before ScheduleComplete.
	ScheduleOptimizationDone
	// Finished is emitted once the bus will never publish again,
	// letting a consumer stop polling instead of timing out forever.
	Finished
)

func (k Kind) String() string {
	switch k {
	case ScheduleOptimizationStart:
		return "schedule_optimization_start"
	case ScheduleOptimizationDone:
		return "schedule_optimization_done"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// SimpleEvent is a tagged event carrying no payload beyond its Kind.
type SimpleEvent struct {
	Kind Kind
}

// ScheduleProgress reports the optimizer's current best-known progress
// estimate. Progress is the fitted fraction of the search believed
// complete, in [0, 1]; it never decreases across the Progress events
// one run publishes (Optimizer clamps it before publishing).
type ScheduleProgress struct {
	Progress        float32
	MakespanSeconds int64
	Epoch           int32
}

// ScheduleComplete reports the final makespan once the search has
// converged.
type ScheduleComplete struct {
	MakespanSeconds int64
}

// Event is the union of everything the bus can carry. Exactly one of
// the typed fields is meaningful for any given Event: the one that is
// non-nil.
type Event struct {
	Simple   *SimpleEvent
	Progress *ScheduleProgress
	Complete *ScheduleComplete
}

// pollInterval is how often Next re-checks for a new event while
// waiting, bounding the staleness of a blocked consumer's wakeup.
const pollInterval = 100 * time.Millisecond

// Bus is a single-producer, single-consumer bounded event queue
// (SPEC_FULL.md §4.10). Every lifecycle event — Start, Done, Complete,
// Finished — is retained and delivered in the order it was published;
// none is ever dropped, which is what lets a consumer rely on
// invariant 7 (Start before every Progress, every Progress before
// Done, Done before Complete, Complete before Finished). Progress is
// the one event kind that coalesces: a new Progress overwrites the
// previous one in the queue if the consumer hasn't read it yet, rather
// than growing the queue, since only the latest estimate is ever
// useful. It is safe for one producer and one consumer to use
// concurrently; it is not safe for multiple producers.
type Bus struct {
	mu          sync.Mutex
	queue       []Event
	progressIdx int // index into queue holding the pending Progress, -1 if none

	wake      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBus returns an empty, open Bus.
func NewBus() *Bus {
	return &Bus{
		progressIdx: -1,
		wake:        make(chan struct{}, 1),
		closed:      make(chan struct{}),
	}
}

// Publish enqueues ev. A Progress event overwrites the queue's pending
// Progress entry in place, preserving its position relative to
// lifecycle events already queued ahead of or behind it; every other
// event kind is appended and never overwritten. Publish never blocks.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	if ev.Progress != nil && b.progressIdx >= 0 {
		b.queue[b.progressIdx] = ev
	} else {
		if ev.Progress != nil {
			b.progressIdx = len(b.queue)
		}
		b.queue = append(b.queue, ev)
	}
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// PublishSimple is a convenience wrapper for events with no payload.
func (b *Bus) PublishSimple(k Kind) {
	b.Publish(Event{Simple: &SimpleEvent{Kind: k}})
}

// PublishProgress is a convenience wrapper for ScheduleProgress events.
func (b *Bus) PublishProgress(p ScheduleProgress) {
	b.Publish(Event{Progress: &p})
}

// PublishComplete is a convenience wrapper for ScheduleComplete events.
func (b *Bus) PublishComplete(c ScheduleComplete) {
	b.Publish(Event{Complete: &c})
	b.PublishSimple(Finished)
}

// Next blocks for up to one poll interval waiting for a new event,
// returning ok=false on timeout so a long-polling HTTP handler can
// re-check its own request deadline between attempts.
func (b *Bus) Next() (Event, bool) {
	for {
		if ev, ok := b.tryDequeue(); ok {
			return ev, true
		}
		select {
		case <-b.wake:
			continue
		case <-time.After(pollInterval):
			return Event{}, false
		case <-b.closed:
			return Event{}, false
		}
	}
}

func (b *Bus) tryDequeue() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return Event{}, false
	}
	ev := b.queue[0]
	b.queue = b.queue[1:]
	switch {
	case b.progressIdx == 0:
		b.progressIdx = -1
	case b.progressIdx > 0:
		b.progressIdx--
	}
	return ev, true
}

// Close permanently releases a consumer blocked in Next: once closed,
// Next returns ok=false at once whenever the queue is empty (Publish
// never blocks, so there is nothing to release on the producer side).
// Idempotent.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}
