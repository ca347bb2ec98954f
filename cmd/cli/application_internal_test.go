package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/settings"
	"github.com/temirov/repostate/internal/utils"
)

func TestApplicationInitializesConfigurationDefaults(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())

	require.Equal(testInstance, string(utils.LogLevelInfo), application.configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatStructured), application.configuration.Common.LogFormat)
	require.Equal(testInstance, "HEAD", application.configuration.Tools.Log.Reference)
}

func TestApplicationLogFormatFlagOverride(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"--log-format", string(utils.LogFormatConsole)})

	require.NoError(testInstance, application.Execute())
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestHumanReadableLoggingEnabled(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logFormat       string
		expectedEnabled bool
	}{
		{name: "console_format", logFormat: string(utils.LogFormatConsole), expectedEnabled: true},
		{name: "console_format_mixed_case", logFormat: "Console", expectedEnabled: true},
		{name: "structured_format", logFormat: string(utils.LogFormatStructured), expectedEnabled: false},
		{name: "empty_format", logFormat: "", expectedEnabled: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			application := NewApplication()
			application.configuration.Common.LogFormat = testCase.logFormat
			require.Equal(subtest, testCase.expectedEnabled, application.humanReadableLoggingEnabled())
		})
	}
}

func TestRepositoryRegistryFromConfiguration(testInstance *testing.T) {
	application := NewApplication()
	application.configuration.Repositories = []map[string]any{
		{"id": 1, "name": "primary", "path": "/srv/repos/primary"},
	}

	registry, registryError := application.repositoryRegistry()
	require.NoError(testInstance, registryError)

	repositorySetting, lookupError := registry.GetRepository(1)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "/srv/repos/primary", repositorySetting.Path)
}

func TestRepositoryRegistryRequiresRepositories(testInstance *testing.T) {
	application := NewApplication()

	_, registryError := application.repositoryRegistry()
	require.ErrorIs(testInstance, registryError, settings.ErrRegistryWithoutRepositories)
}
