package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/devenv/internal/shell"
)

// Response is the scripted outcome of one command in a FakeRunner.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err makes Run fail as if the command could not be started.
	Err error
}

// FakeRunner is a shell.Runner that answers from a script and records every
// invocation. Unknown commands fail with exit code 127.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

var _ shell.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates a FakeRunner with the given script.
func NewFakeRunner(script map[string]Response) *FakeRunner {
	responses := make(map[string]Response, len(script))
	for k, v := range script {
		responses[k] = v
	}
	return &FakeRunner{responses: responses}
}

// Run implements shell.Runner.
func (f *FakeRunner) Run(_ context.Context, command string) (*shell.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	resp, ok := f.responses[command]
	f.mu.Unlock()

	if !ok {
		return &shell.Result{Stderr: fmt.Sprintf("sh: %s: not found\n", command), ExitCode: 127}, nil
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &shell.Result{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}, nil
}

// Calls returns every command run so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times command was run.
func (f *FakeRunner) CallCount(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == command {
			n++
		}
	}
	return n
}
