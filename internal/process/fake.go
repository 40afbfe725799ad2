package process

import (
	"context"
	"slices"
	"sync"
)

// Fake is a scripted Runner for tests. It never starts a real process.
// Safe for concurrent use.
type Fake struct {
	// Handler computes the outcome for an argument vector.
	// When nil every command succeeds with empty output.
	Handler func(argv []string) Outcome

	mu    sync.Mutex
	calls [][]string
}

// NewFake creates a Fake that answers every command with handler.
func NewFake(handler func(argv []string) Outcome) *Fake {
	return &Fake{Handler: handler}
}

// Run records argv and returns the scripted outcome.
func (f *Fake) Run(ctx context.Context, argv []string) Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(argv))
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Outcome{ExitCode: ExitAborted, Stderr: err.Error()}
	}
	if f.Handler == nil {
		return Outcome{}
	}
	return f.Handler(argv)
}

// Calls returns a copy of every argument vector seen so far, in call order.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = slices.Clone(c)
	}
	return out
}

// Verify interface compliance
var _ Runner = (*Fake)(nil)
