package lando_test

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
	"github.com/specialistvlad/devenv/modules/lando"
)

const infoOutput = `[
  {
    "service": "database",
    "type": "mysql",
    "internal_connection": {"host": "database", "port": "3306"},
    "external_connection": {"host": "127.0.0.1", "port": "49153"},
    "creds": {"database": "drupal", "password": "drupal", "user": "drupal"}
  }
]`

func TestConfiguration(t *testing.T) {
	testCases := []struct {
		cc       descriptor.ConnectionContext
		expected map[string]string
	}{
		{
			cc:       descriptor.Internal,
			expected: map[string]string{"type": "mysql", "database": "drupal", "username": "drupal", "password": "drupal", "host": "database", "port": "3306"},
		},
		{
			cc:       descriptor.External,
			expected: map[string]string{"type": "mysql", "database": "drupal", "username": "drupal", "password": "drupal", "host": "127.0.0.1", "port": "49153"},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.cc), func(t *testing.T) {
			runner := testutil.NewFakeRunner(map[string]testutil.Response{lando.InfoCommand: {Stdout: infoOutput}})
			got, err := resolver.New(runner, resolver.WithConcurrency(2)).ResolveConnection(context.Background(), lando.Configuration(), "primary", tc.cc)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("connection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfiguration_EmptyInfo(t *testing.T) {
	runner := testutil.NewFakeRunner(map[string]testutil.Response{lando.InfoCommand: {Stdout: "[]"}})

	_, err := resolver.New(runner).ResolveConnection(context.Background(), lando.Configuration(), "primary", descriptor.Internal)
	var qErr *resolver.QueryResolutionError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "[].internal_connection.host | [0]", qErr.Query)
}

func TestEnvironment(t *testing.T) {
	env := lando.Environment()
	require.NoError(t, env.Validate())

	_, err := env.Command(environment.ActionInfo)
	assert.ErrorIs(t, err, environment.ErrUnknownAction)
}
