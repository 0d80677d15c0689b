package profiling

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stopper is an interface for stopping a timed span.
type Stopper interface {
	Stop()
}

// span represents a single timed operation in the hierarchy.
type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	profiler *Profiler
}

// Stop completes the timing for this span.
func (s *span) Stop() {
	s.profiler.endSpan(s)
}

// Profiler records nested timing spans for one command invocation.
// A nil or disabled Profiler hands out no-op spans.
type Profiler struct {
	mu        sync.Mutex
	enabled   bool
	root      *span
	spanStack []*span
	now       func() time.Time
}

// New returns a disabled profiler.
func New() *Profiler {
	return &Profiler{now: time.Now}
}

// Enable starts the root span. Calling it again has no effect.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return
	}
	p.enabled = true
	p.root = &span{name: "root", start: p.now(), profiler: p}
	p.spanStack = []*span{p.root}
}

// Enabled reports whether spans are being recorded.
func (p *Profiler) Enabled() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Start begins a new timed span nested under the innermost open one.
// It returns a Stopper which must be used to end the span, typically via defer.
func (p *Profiler) Start(name string) Stopper {
	if p == nil {
		return noopStopper{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return noopStopper{}
	}

	parent := p.spanStack[len(p.spanStack)-1]
	s := &span{name: name, start: p.now(), profiler: p}
	parent.children = append(parent.children, s)
	p.spanStack = append(p.spanStack, s)
	return s
}

func (p *Profiler) endSpan(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s.duration = p.now().Sub(s.start)
	if len(p.spanStack) <= 1 {
		return
	}
	// Pop s and anything opened inside it that was never stopped.
	for i := len(p.spanStack) - 1; i > 0; i-- {
		if p.spanStack[i] == s {
			p.spanStack = p.spanStack[:i]
			return
		}
	}
}

// Summarize prints a formatted, hierarchical summary of all timed spans to the writer.
func (p *Profiler) Summarize(w io.Writer) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.root == nil {
		return
	}

	if p.root.duration == 0 {
		p.root.duration = p.now().Sub(p.root.start)
	}

	fmt.Fprintln(w, "--- Timing Profile ---")
	printSpan(w, p.root, 0, p.root.duration)
	fmt.Fprintln(w, "----------------------")
}

// printSpan is a recursive helper to print the span tree.
func printSpan(w io.Writer, s *span, depth int, total time.Duration) {
	if s != s.profiler.root {
		percentage := 0.0
		if total > 0 {
			percentage = float64(s.duration) / float64(total) * 100
		}
		indent := strings.Repeat("  ", depth-1)
		fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", indent, s.name, s.duration.Round(100*time.Microsecond), percentage)
	}

	sort.SliceStable(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	for _, child := range s.children {
		printSpan(w, child, depth+1, total)
	}
}

// noopStopper is used when the profiler is disabled.
type noopStopper struct{}

func (noopStopper) Stop() {}

type contextKey struct{}

// WithProfiler returns a copy of ctx carrying p.
func WithProfiler(ctx context.Context, p *Profiler) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the profiler stored in ctx, or nil.
func FromContext(ctx context.Context) *Profiler {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(contextKey{}).(*Profiler)
	return p
}
