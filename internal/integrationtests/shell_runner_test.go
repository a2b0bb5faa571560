//go:build !windows

package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/devenv/internal/app"
	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/hcl"
	"github.com/specialistvlad/devenv/internal/resolver"
	"github.com/specialistvlad/devenv/internal/testutil"
)

const shellHCL = `
environment "local" {
  database "primary" {
    type = "mysql"

    field "host" {
      command = "echo '{\"db\":{\"hosts\":{\"internal\":\"db\",\"external\":\"localhost\"},\"port\":3306}}'"
      query   = "db.hosts.${connection}"
    }
    field "port" {
      command = "echo '{\"db\":{\"hosts\":{},\"port\":3306}}'"
      query   = "db.port"
    }
    field "version" {
      command = "echo 8.0.36"
    }
  }

  database "broken" {
    field "host" {
      command = "echo 'database is down' >&2; exit 3"
    }
  }

  database "slow" {
    field "host" {
      command = "sleep 5"
    }
  }

  commands = {
    info = "echo local"
  }
}
`

// newShellApp builds an App that runs commands through the real shell.
func newShellApp(t *testing.T, timeout time.Duration, concurrency int) *app.App {
	t.Helper()

	dir := testutil.WriteFiles(t, map[string]string{"local.hcl": shellHCL})
	cfg, err := app.NewConfig(app.Config{
		EnvironmentsPaths: []string{dir},
		LogLevel:          "debug",
		LogFormat:         "json",
		CommandTimeout:    timeout,
		Concurrency:       concurrency,
	})
	require.NoError(t, err)

	a, err := app.NewApp(&testutil.SafeBuffer{}, cfg, hcl.NewLoader(), nil, &testutil.StaticModule{})
	require.NoError(t, err)
	return a
}

func TestShellRunner_ResolvesConnection(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		a := newShellApp(t, 0, concurrency)

		info, err := a.DatabaseInfo(context.Background(), "local", "primary", descriptor.External)
		require.NoError(t, err)

		expected := map[string]string{"type": "mysql", "host": "localhost", "port": "3306", "version": "8.0.36"}
		if diff := cmp.Diff(expected, info); diff != "" {
			t.Errorf("concurrency %d: database info mismatch (-want +got):\n%s", concurrency, diff)
		}
	}
}

func TestShellRunner_Failures(t *testing.T) {
	a := newShellApp(t, 200*time.Millisecond, 1)
	ctx := context.Background()

	_, err := a.DatabaseInfo(ctx, "local", "broken", descriptor.Internal)
	var cmdErr *resolver.CommandExecutionError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Contains(t, cmdErr.Error(), "database is down")

	start := time.Now()
	_, err = a.DatabaseInfo(ctx, "local", "slow", descriptor.Internal)
	require.ErrorAs(t, err, &cmdErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)

	out, err := a.RunAction(ctx, "local", environment.ActionInfo, []string{"a b"})
	require.NoError(t, err)
	assert.Equal(t, "local a b", out)
}
