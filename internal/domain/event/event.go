package event

import "sync"

// Kind classifies a progress event.
type Kind string

const (
	// KindStep announces a numbered pipeline step.
	KindStep Kind = "step"
	// KindInfo carries a detail line under the current step.
	KindInfo Kind = "info"
	// KindWarn reports a degraded but non-fatal outcome.
	KindWarn Kind = "warn"
)

// Event is a pipeline progress notification shared by all front ends.
type Event struct {
	Kind    Kind   `json:"kind"`
	Step    int    `json:"step,omitempty"`
	Message string `json:"message"`
}

// Sink receives progress events. Implementations must not block for long.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Emit implements Sink.
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Step emits a step heading.
func Step(s Sink, n int, msg string) { s.Emit(Event{Kind: KindStep, Step: n, Message: msg}) }

// Info emits a detail line.
func Info(s Sink, msg string) { s.Emit(Event{Kind: KindInfo, Message: msg}) }

// Warn emits a warning line.
func Warn(s Sink, msg string) { s.Emit(Event{Kind: KindWarn, Message: msg}) }

// Recorder collects events, used by tests and buffered front ends.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a snapshot of recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Steps returns the step numbers in emission order.
func (r *Recorder) Steps() []int {
	var out []int
	for _, e := range r.Events() {
		if e.Kind == KindStep {
			out = append(out, e.Step)
		}
	}
	return out
}
