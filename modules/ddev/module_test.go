package ddev_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/resolver"
	"github.com/specialistvlad/devenv/internal/testutil"
	"github.com/specialistvlad/devenv/modules/ddev"
)

const describeOutput = `{
  "raw": {
    "hostname": "127.0.0.1",
    "primary_url": "https://site.ddev.site",
    "dbinfo": {"host": "db", "dbPort": "3306", "published_port": 32781, "username": "db"}
  }
}`

func TestConfiguration(t *testing.T) {
	testCases := []struct {
		cc       descriptor.ConnectionContext
		expected map[string]string
	}{
		{
			cc:       descriptor.Internal,
			expected: map[string]string{"type": "mysql", "database": "db", "username": "root", "password": "root", "host": "db", "port": "3306"},
		},
		{
			cc:       descriptor.External,
			expected: map[string]string{"type": "mysql", "database": "db", "username": "root", "password": "root", "host": "127.0.0.1", "port": "32781"},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cc), func(t *testing.T) {
			runner := testutil.NewFakeRunner(map[string]testutil.Response{ddev.DescribeCommand: {Stdout: describeOutput}})
			got, err := resolver.New(runner).ResolveConnection(context.Background(), ddev.Configuration(), "primary", tc.cc)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("connection mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 2, runner.CallCount(ddev.DescribeCommand))
		})
	}
}

func TestConfiguration_ProjectNotRunning(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.Response{
		ddev.DescribeCommand: {Stderr: "Failed to describe project: no project found", ExitCode: 1},
	})

	_, err := resolver.New(runner).ResolveConnection(context.Background(), ddev.Configuration(), "primary", descriptor.External)
	var fieldErr *resolver.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "host", fieldErr.Field)
	var cmdErr *resolver.CommandExecutionError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, ddev.DescribeCommand, cmdErr.Command)
}

func TestEnvironment(t *testing.T) {
	env := ddev.Environment()
	require.NoError(t, env.Validate())
	assert.Equal(t, environment.KnownActions, env.Actions())

	cmd, err := env.Command(environment.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, "ddev start", cmd)
}
