package history

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/dependencies"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/history"
	"github.com/temirov/repostate/internal/settings"
)

const (
	commandUseConstant                   = "log"
	commandShortDescriptionConstant      = "List recent commit metadata for a repository"
	commandLongDescriptionConstant       = "log decodes commit metadata for a reference and prints one line per commit with hash, date, author, and subject."
	flagRepositoryNameConstant           = "repo"
	flagRepositoryDescriptionConstant    = "Identifier of the registered repository to inspect"
	flagPathNameConstant                 = "path"
	flagPathDescriptionConstant          = "Inspect a repository path directly instead of a registered repository"
	flagReferenceNameConstant            = "ref"
	flagReferenceDescriptionConstant     = "Reference whose history should be listed"
	flagLimitNameConstant                = "limit"
	flagLimitDescriptionConstant         = "Maximum number of commits to list"
	defaultReferenceConstant             = "HEAD"
	unexpectedArgumentsMessageConstant   = "log does not accept positional arguments"
	registryUnavailableMessageConstant   = "no repository registry configured; declare repositories in the configuration file or pass --path"
	gatewayCreationErrorTemplateConstant = "unable to construct repository gateway: %w"
	serviceCreationErrorTemplateConstant = "unable to construct history service: %w"
	commitLineTemplateConstant           = "%s %s %s %s\n"
	abbreviatedHashLengthConstant        = 7
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
	errRegistryUnavailable = errors.New(registryUnavailableMessageConstant)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// RegistryProvider supplies the persisted repository registry.
type RegistryProvider func() (*settings.Registry, error)

// CommandConfiguration captures configuration values for the log command.
type CommandConfiguration struct {
	Reference string `mapstructure:"ref"`
	Limit     int    `mapstructure:"limit"`
}

// DefaultCommandConfiguration provides baseline configuration values for commit listings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Reference: defaultReferenceConstant, Limit: 0}
}

// DefaultConfigurationValues exposes the configuration defaults keyed for viper registration.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + flagReferenceNameConstant: defaults.Reference,
		rootKey + "." + flagLimitNameConstant:     defaults.Limit,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Reference = strings.TrimSpace(configuration.Reference)
	if len(sanitized.Reference) == 0 {
		sanitized.Reference = defaultReferenceConstant
	}
	return sanitized
}

// CommandBuilder assembles the log cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	RegistryProvider             RegistryProvider
	GitExecutor                  gitrepo.GitExecutor
}

// Build constructs the log command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int(flagRepositoryNameConstant, 0, flagRepositoryDescriptionConstant)
	command.Flags().String(flagPathNameConstant, "", flagPathDescriptionConstant)
	command.Flags().String(flagReferenceNameConstant, "", flagReferenceDescriptionConstant)
	command.Flags().Int(flagLimitNameConstant, 0, flagLimitDescriptionConstant)

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

	configuration := builder.resolveConfiguration()
	reference := configuration.Reference
	if command.Flags().Changed(flagReferenceNameConstant) {
		reference, _ = command.Flags().GetString(flagReferenceNameConstant)
	}
	limit := configuration.Limit
	if command.Flags().Changed(flagLimitNameConstant) {
		limit, _ = command.Flags().GetInt(flagLimitNameConstant)
	}

	service, serviceError := history.NewService(gateway)
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	commits, listError := service.ListCommits(command.Context(), repositoryPath, reference, limit)
	if listError != nil {
		return listError
	}

	renderCommits(command.OutOrStdout(), commits)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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

func renderCommits(output io.Writer, commits []history.CommitRecord) {
	for _, commit := range commits {
		fmt.Fprintf(output, commitLineTemplateConstant, abbreviateHash(commit.SHA), commit.Date, commit.Author, commit.Subject)
	}
}

func abbreviateHash(fullHash string) string {
	if len(fullHash) <= abbreviatedHashLengthConstant {
		return fullHash
	}
	return fullHash[:abbreviatedHashLengthConstant]
}
