package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/devenv/internal/app"
	"github.com/specialistvlad/devenv/internal/hcl"
	"github.com/specialistvlad/devenv/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of building an App for a test.
type HarnessResult struct {
	App    *app.App
	Runner *FakeRunner
	Logs   *SafeBuffer
	Dir    string
	Err    error
}

// WriteFiles writes files (relative path to content) under a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// NewTestApp writes the given environment files to a temporary directory and
// builds an App that loads them, runs commands through a FakeRunner scripted
// with script and logs at debug level into a SafeBuffer. With no modules the
// built-in ones are registered.
func NewTestApp(t *testing.T, files map[string]string, script map[string]Response, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{
		EnvironmentsPaths: []string{dir},
		LogLevel:          "debug",
		LogFormat:         "text",
		Concurrency:       1,
	})
	require.NoError(t, err)

	logs := &SafeBuffer{}
	runner := NewFakeRunner(script)
	testApp, err := app.NewApp(logs, cfg, hcl.NewLoader(), runner, modules...)

	t.Cleanup(func() {
		if os.Getenv("DEVENV_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &HarnessResult{App: testApp, Runner: runner, Logs: logs, Dir: dir, Err: err}
}
