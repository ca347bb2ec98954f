package status

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/dependencies"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/settings"
	"github.com/temirov/repostate/internal/worktree"
)

const (
	commandUseConstant                   = "status"
	commandShortDescriptionConstant      = "Summarize working tree changes for a repository"
	commandLongDescriptionConstant       = "status parses porcelain working tree output and reports staged, unstaged, and untracked change counts."
	flagRepositoryNameConstant           = "repo"
	flagRepositoryDescriptionConstant    = "Identifier of the registered repository to inspect"
	flagPathNameConstant                 = "path"
	flagPathDescriptionConstant          = "Inspect a repository path directly instead of a registered repository"
	unexpectedArgumentsMessageConstant   = "status does not accept positional arguments"
	registryUnavailableMessageConstant   = "no repository registry configured; declare repositories in the configuration file or pass --path"
	gatewayCreationErrorTemplateConstant = "unable to construct repository gateway: %w"
	serviceCreationErrorTemplateConstant = "unable to construct worktree service: %w"
	cleanWorktreeMessageConstant         = "working tree clean\n"
	summaryLineTemplateConstant          = "staged %d, unstaged %d, untracked %d\n"
	entryLineTemplateConstant            = "%s%s %s\n"
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
	errRegistryUnavailable = errors.New(registryUnavailableMessageConstant)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// RegistryProvider supplies the persisted repository registry.
type RegistryProvider func() (*settings.Registry, error)

// CommandBuilder assembles the status cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	RegistryProvider             RegistryProvider
	GitExecutor                  gitrepo.GitExecutor
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int(flagRepositoryNameConstant, 0, flagRepositoryDescriptionConstant)
	command.Flags().String(flagPathNameConstant, "", flagPathDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := builder.resolveLogger()
	gateway, gatewayError := builder.resolveGateway(logger)
	if gatewayError != nil {
		return gatewayError
	}

	repositoryPath, pathError := builder.resolveRepositoryPath(command)
	if pathError != nil {
		return pathError
	}

	service, serviceError := worktree.NewService(gateway)
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	summary, summaryError := service.Summarize(command.Context(), repositoryPath)
	if summaryError != nil {
		return summaryError
	}

	renderSummary(command.OutOrStdout(), summary)
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGateway(logger *zap.Logger) (*gitrepo.Gateway, error) {
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}
	gateway, gatewayError := dependencies.ResolveGateway(nil, gitExecutor)
	if gatewayError != nil {
		return nil, fmt.Errorf(gatewayCreationErrorTemplateConstant, gatewayError)
	}
	return gateway, nil
}

func (builder *CommandBuilder) resolveRepositoryPath(command *cobra.Command) (string, error) {
	pathValue, _ := command.Flags().GetString(flagPathNameConstant)
	trimmedPath := strings.TrimSpace(pathValue)
	if len(trimmedPath) > 0 {
		return trimmedPath, nil
	}

	if builder.RegistryProvider == nil {
		return "", errRegistryUnavailable
	}
	registry, registryError := builder.RegistryProvider()
	if registryError != nil {
		return "", registryError
	}

	registeredRepositories := registry.Repositories()
	repositoryID := registeredRepositories[0].ID
	if command.Flags().Changed(flagRepositoryNameConstant) {
		repositoryID, _ = command.Flags().GetInt(flagRepositoryNameConstant)
	}

	repositorySetting, lookupError := registry.GetRepository(repositoryID)
	if lookupError != nil {
		return "", lookupError
	}
	return repositorySetting.Path, nil
}

func renderSummary(output io.Writer, summary worktree.Summary) {
	if summary.Clean {
		fmt.Fprint(output, cleanWorktreeMessageConstant)
		return
	}
	fmt.Fprintf(output, summaryLineTemplateConstant, summary.StagedCount, summary.UnstagedCount, summary.UntrackedCount)
	for _, entry := range summary.Entries {
		fmt.Fprintf(output, entryLineTemplateConstant, entry.StagedCode, entry.UnstagedCode, entry.Path)
	}
}
