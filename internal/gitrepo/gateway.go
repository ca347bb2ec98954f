package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/records"
)

const (
	gitExecutorMissingMessageConstant         = "git executor not configured"
	repositoryPathRequiredMessageConstant     = "repository path must be provided"
	referenceRequiredMessageConstant          = "reference name must be provided"
	reachableCountParseErrorTemplateConstant  = "failed to parse reachable commit count %q: %w"
	gitForEachRefSubcommandConstant           = "for-each-ref"
	gitLocalBranchRefsConstant                = "refs/heads"
	gitRemoteBranchRefsConstant               = "refs/remotes"
	gitFormatFlagTemplateConstant             = "--format=%s"
	gitRevParseSubcommandConstant             = "rev-parse"
	gitAbbrevRefFlagConstant                  = "--abbrev-ref"
	gitHeadReferenceConstant                  = "HEAD"
	gitRevListSubcommandConstant              = "rev-list"
	gitCountFlagConstant                      = "--count"
	gitExcludeReferencePrefixConstant         = "^"
	gitStatusSubcommandConstant               = "status"
	gitStatusPorcelainFlagConstant            = "--porcelain"
	gitLogSubcommandConstant                  = "log"
	gitMaxCountFlagConstant                   = "-n"
	gitTerminalPromptEnvironmentNameConstant  = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentValueConstant = "0"
)

// ErrGitExecutorNotConfigured indicates the gateway was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an operation was invoked without a repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrReferenceRequired indicates an operation was invoked without a reference name.
var ErrReferenceRequired = errors.New(referenceRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the gateway.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Gateway constructs and executes git commands against a repository path.
//
// It returns raw command output untouched; interpreting that output (including
// treating emptiness as an error) belongs to the parsers consuming it.
type Gateway struct {
	executor GitExecutor
}

// NewGateway constructs a Gateway from the provided executor.
func NewGateway(executor GitExecutor) (*Gateway, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Gateway{executor: executor}, nil
}

// ListBranches lists local and remote-tracking branches using the supplied field schema.
//
// The schema both shapes the --format argument and later drives decoding, so
// the emitted field order can never drift from the parsing order.
func (gateway *Gateway) ListBranches(executionContext context.Context, repositoryPath string, schema records.FieldSchema) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := gateway.executeGit(executionContext, trimmedRepositoryPath, []string{
		gitForEachRefSubcommandConstant,
		gitLocalBranchRefsConstant,
		gitRemoteBranchRefsConstant,
		fmt.Sprintf(gitFormatFlagTemplateConstant, schema.FormatString()),
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// GetCurrentBranch resolves the short name of the currently checked out branch.
func (gateway *Gateway) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := gateway.executeGit(executionContext, trimmedRepositoryPath, []string{
		gitRevParseSubcommandConstant,
		gitAbbrevRefFlagConstant,
		gitHeadReferenceConstant,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CountReachable counts commits reachable from fromReference but not from excludingReference.
func (gateway *Gateway) CountReachable(executionContext context.Context, repositoryPath string, fromReference string, excludingReference string) (int, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return 0, ErrRepositoryPathRequired
	}
	trimmedFromReference := strings.TrimSpace(fromReference)
	trimmedExcludingReference := strings.TrimSpace(excludingReference)
	if len(trimmedFromReference) == 0 || len(trimmedExcludingReference) == 0 {
		return 0, ErrReferenceRequired
	}

	executionResult, executionError := gateway.executeGit(executionContext, trimmedRepositoryPath, []string{
		gitRevListSubcommandConstant,
		gitCountFlagConstant,
		trimmedFromReference,
		gitExcludeReferencePrefixConstant + trimmedExcludingReference,
	})
	if executionError != nil {
		return 0, executionError
	}

	trimmedCount := strings.TrimSpace(executionResult.StandardOutput)
	reachableCount, conversionError := strconv.Atoi(trimmedCount)
	if conversionError != nil {
		return 0, fmt.Errorf(reachableCountParseErrorTemplateConstant, trimmedCount, conversionError)
	}
	return reachableCount, nil
}

// GetStatus reports the porcelain working tree status.
func (gateway *Gateway) GetStatus(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := gateway.executeGit(executionContext, trimmedRepositoryPath, []string{
		gitStatusSubcommandConstant,
		gitStatusPorcelainFlagConstant,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// GetLogMeta lists commit metadata for the supplied reference using the field schema.
func (gateway *Gateway) GetLogMeta(executionContext context.Context, repositoryPath string, reference string, limit int, schema records.FieldSchema) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return "", ErrReferenceRequired
	}

	executionResult, executionError := gateway.executeGit(executionContext, trimmedRepositoryPath, []string{
		gitLogSubcommandConstant,
		trimmedReference,
		gitMaxCountFlagConstant,
		strconv.Itoa(limit),
		fmt.Sprintf(gitFormatFlagTemplateConstant, schema.FormatString()),
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func (gateway *Gateway) executeGit(executionContext context.Context, repositoryPath string, arguments []string) (execshell.ExecutionResult, error) {
	return gateway.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentValueConstant,
		},
	})
}
