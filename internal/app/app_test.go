package app_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/registry"
	"github.com/specialistvlad/devenv/internal/resolver"
	"github.com/specialistvlad/devenv/internal/testutil"
	"github.com/specialistvlad/devenv/modules/ddev"
)

func TestNewApp_BuiltinsAndUserEnvironments(t *testing.T) {
	h := testutil.NewTestApp(t, map[string]string{"envs/docksal.hcl": testutil.DocksalHCL}, nil)
	require.NoError(t, h.Err)

	var names []string
	for _, env := range h.App.Environments() {
		names = append(names, env.Name)
	}
	assert.Equal(t, []string{"ddev", "docksal", "lando"}, names)
	assert.Contains(t, h.Logs.String(), "Registry validation passed.")
	assert.Empty(t, h.Runner.Calls(), "building the app must not run commands")
}

func TestNewApp_InvalidEnvironmentFile(t *testing.T) {
	h := testutil.NewTestApp(t, map[string]string{"bad.hcl": `environment "x" {`}, nil)
	require.Error(t, h.Err)
	assert.Nil(t, h.App)
	assert.Contains(t, h.Err.Error(), "failed to load environments")
}

func TestNewApp_RegistryValidation(t *testing.T) {
	h := testutil.NewTestApp(t, map[string]string{"x.hcl": `
environment "x" {
  contexts = ["internal"]
  database "primary" {
    field "host" {
      command = "c"
      query   = { external = "host" }
    }
  }
}`}, nil)
	require.Error(t, h.Err)
	assert.Contains(t, h.Err.Error(), "registry validation failed")
	assert.Contains(t, h.Err.Error(), "undeclared context")
}

func TestDatabaseInfo_UserEnvironment(t *testing.T) {
	script := map[string]testutil.Response{
		"fin config get --json": {Stdout: testutil.DocksalConfigOutput},
		"fin db version":        {Stdout: "8.0.36\n"},
	}

	testCases := []struct {
		cc       descriptor.ConnectionContext
		expected map[string]string
	}{
		{
			cc: descriptor.Internal,
			expected: map[string]string{
				"type": "mysql", "database": "default", "username": "user", "password": "user",
				"host": "db", "port": "3306", "version": "8.0.36",
			},
		},
		{
			cc: descriptor.External,
			expected: map[string]string{
				"type": "mysql", "database": "default", "username": "user", "password": "user",
				"host": "127.0.0.1", "port": "32790", "version": "8.0.36",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cc), func(t *testing.T) {
			h := testutil.NewTestApp(t, map[string]string{"docksal.hcl": testutil.DocksalHCL}, script)
			require.NoError(t, h.Err)

			got, err := h.App.DatabaseInfo(context.Background(), "docksal", "primary", tc.cc)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("database info mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 2, h.Runner.CallCount("fin config get --json"))
			assert.Equal(t, 1, h.Runner.CallCount("fin db version"))
		})
	}
}

func TestDatabaseInfo_Builtin(t *testing.T) {
	h := testutil.NewTestApp(t, nil, map[string]testutil.Response{
		ddev.DescribeCommand: {Stdout: `{"raw":{"hostname":"127.0.0.1","dbinfo":{"host":"db","dbPort":3306,"published_port":32768}}}`},
	})
	require.NoError(t, h.Err)

	got, err := h.App.DatabaseInfo(context.Background(), "ddev", "primary", descriptor.External)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", got["host"])
	assert.Equal(t, "32768", got["port"])
}

func TestDatabaseInfo_LiteralsOnly(t *testing.T) {
	h := testutil.NewTestApp(t, nil, nil, &testutil.StaticModule{})
	require.NoError(t, h.Err)

	got, err := h.App.DatabaseInfo(context.Background(), testutil.StaticEnvironment, "primary", descriptor.Internal)
	require.NoError(t, err)
	assert.Equal(t, "5432", got["port"])
	assert.Equal(t, "", got["password"])
	assert.Empty(t, h.Runner.Calls())
}

func TestDatabaseInfo_Errors(t *testing.T) {
	h := testutil.NewTestApp(t, map[string]string{"x.hcl": `
environment "inside" {
  contexts = ["internal"]
  database "primary" {
    field "host" {
      command = "inside info"
      query   = "host"
    }
  }
}`}, map[string]testutil.Response{ddev.DescribeCommand: {Stdout: "garbage"}})
	require.NoError(t, h.Err)
	ctx := context.Background()

	_, err := h.App.DatabaseInfo(ctx, "nope", "primary", descriptor.Internal)
	assert.ErrorIs(t, err, registry.ErrUnknownEnvironment)

	_, err = h.App.DatabaseInfo(ctx, "ddev", "replica", descriptor.Internal)
	assert.ErrorIs(t, err, resolver.ErrUnknownConnection)

	_, err = h.App.DatabaseInfo(ctx, "inside", "primary", descriptor.External)
	var ctxErr *descriptor.UnsupportedContextError
	require.ErrorAs(t, err, &ctxErr)
	assert.Empty(t, h.Runner.Calls())

	_, err = h.App.DatabaseInfo(ctx, "ddev", "primary", descriptor.Internal)
	var malformed *resolver.MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "garbage", malformed.Raw)
}

func TestRunAction(t *testing.T) {
	h := testutil.NewTestApp(t, nil, map[string]testutil.Response{
		"ddev start":                       {Stdout: "Successfully started site\n"},
		`ddev exec 'drush' 'st' 'it'\''s'`: {Stdout: "ok"},
		"ddev stop":                        {Stderr: "not running", ExitCode: 1},
	})
	require.NoError(t, h.Err)
	ctx := context.Background()

	out, err := h.App.RunAction(ctx, "ddev", environment.ActionStart, nil)
	require.NoError(t, err)
	assert.Equal(t, "Successfully started site", out)

	out, err = h.App.RunAction(ctx, "ddev", environment.ActionExecute, []string{"drush", "st", "it's"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = h.App.RunAction(ctx, "ddev", environment.ActionStop, nil)
	var cmdErr *resolver.CommandExecutionError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)

	_, err = h.App.RunAction(ctx, "lando", environment.ActionInfo, nil)
	assert.ErrorIs(t, err, environment.ErrUnknownAction)

	_, err = h.App.RunAction(ctx, "nope", environment.ActionStart, nil)
	assert.ErrorIs(t, err, registry.ErrUnknownEnvironment)
}
