package history_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	historycmd "github.com/temirov/repostate/cmd/cli/history"
	"github.com/temirov/repostate/internal/execshell"
)

const (
	historyTestRepositoryPathConstant = "/tmp/history-repo"
	historyTestLogOutputConstant      = "0123456789abcdef\x00Casey\x00casey@example.com\x002026-08-01T10:00:00+00:00\x00Add parser\n" +
		"fedcba9876543210\x00Robin\x00robin@example.com\x002026-07-30T09:00:00+00:00\x00Fix decoding\n"
)

type logGitExecutor struct {
	recordedArguments []string
	standardOutput    string
}

func (executor *logGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedArguments = append([]string{}, details.Arguments...)
	return execshell.ExecutionResult{StandardOutput: executor.standardOutput}, nil
}

func TestLogCommandRendersCommitLines(testInstance *testing.T) {
	executor := &logGitExecutor{standardOutput: historyTestLogOutputConstant}
	builder := historycmd.CommandBuilder{GitExecutor: executor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{"--path", historyTestRepositoryPathConstant, "--ref", "main", "--limit", "2"})

	require.NoError(testInstance, command.Execute())

	expectedOutput := "0123456 2026-08-01T10:00:00+00:00 Casey Add parser\n" +
		"fedcba9 2026-07-30T09:00:00+00:00 Robin Fix decoding\n"
	require.Equal(testInstance, expectedOutput, outputBuffer.String())
	require.Equal(testInstance, "main", executor.recordedArguments[1])
	require.Equal(testInstance, "2", executor.recordedArguments[3])
}

func TestLogCommandDefaultsReferenceAndLimit(testInstance *testing.T) {
	executor := &logGitExecutor{standardOutput: historyTestLogOutputConstant}
	builder := historycmd.CommandBuilder{GitExecutor: executor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--path", historyTestRepositoryPathConstant})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, "HEAD", executor.recordedArguments[1])
	require.Equal(testInstance, "20", executor.recordedArguments[3])
}

func TestLogCommandSurfacesEmptyHistoryFailure(testInstance *testing.T) {
	executor := &logGitExecutor{standardOutput: ""}
	builder := historycmd.CommandBuilder{GitExecutor: executor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{"--path", historyTestRepositoryPathConstant})

	require.Error(testInstance, command.Execute())
}
