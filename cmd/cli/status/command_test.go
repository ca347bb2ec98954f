package status_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	statuscmd "github.com/temirov/repostate/cmd/cli/status"
	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/settings"
)

const statusTestRepositoryPathConstant = "/tmp/status-repo"

type porcelainGitExecutor struct {
	standardOutput   string
	workingDirectory string
}

func (executor *porcelainGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.workingDirectory = details.WorkingDirectory
	return execshell.ExecutionResult{StandardOutput: executor.standardOutput}, nil
}

func TestStatusCommandOutputs(testInstance *testing.T) {
	testCases := []struct {
		name            string
		porcelainOutput string
		expectedOutput  string
	}{
		{
			name:            "clean_worktree",
			porcelainOutput: "",
			expectedOutput:  "working tree clean\n",
		},
		{
			name:            "mixed_changes",
			porcelainOutput: "M  staged.go\n M unstaged.go\n?? fresh.go\n",
			expectedOutput:  "staged 1, unstaged 1, untracked 1\nM  staged.go\n M unstaged.go\n?? fresh.go\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			executor := &porcelainGitExecutor{standardOutput: testCase.porcelainOutput}
			builder := statuscmd.CommandBuilder{GitExecutor: executor}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(outputBuffer)
			command.SetContext(context.Background())
			command.SetArgs([]string{"--path", statusTestRepositoryPathConstant})

			require.NoError(subtest, command.Execute())
			require.Equal(subtest, testCase.expectedOutput, outputBuffer.String())
			require.Equal(subtest, statusTestRepositoryPathConstant, executor.workingDirectory)
		})
	}
}

func TestStatusCommandResolvesRegisteredRepository(testInstance *testing.T) {
	executor := &porcelainGitExecutor{standardOutput: ""}
	registry, registryError := settings.NewRegistry([]settings.RepositorySetting{
		{ID: 3, Name: "registered", Path: statusTestRepositoryPathConstant},
	})
	require.NoError(testInstance, registryError)

	builder := statuscmd.CommandBuilder{
		GitExecutor: executor,
		RegistryProvider: func() (*settings.Registry, error) {
			return registry, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--repo", "3"})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, statusTestRepositoryPathConstant, executor.workingDirectory)
}

func TestStatusCommandRejectsUnknownRepository(testInstance *testing.T) {
	registry, registryError := settings.NewRegistry([]settings.RepositorySetting{
		{ID: 3, Name: "registered", Path: statusTestRepositoryPathConstant},
	})
	require.NoError(testInstance, registryError)

	builder := statuscmd.CommandBuilder{
		GitExecutor: &porcelainGitExecutor{},
		RegistryProvider: func() (*settings.Registry, error) {
			return registry, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--repo", "9"})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.IsType(testInstance, settings.RepositoryNotFoundError{}, executionError)
}
