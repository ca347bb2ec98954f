package branches

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/branchview"
	"github.com/temirov/repostate/internal/dependencies"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/session"
)

const (
	commandUseConstant                   = "branches"
	commandShortDescriptionConstant      = "List branch topology with upstream divergence counts"
	commandLongDescriptionConstant       = "branches reconciles local and remote branch listings for a repository and reports how far each tracked branch has drifted from its upstream."
	flagRepositoryNameConstant           = "repo"
	flagRepositoryDescriptionConstant    = "Identifier of the registered repository to inspect"
	flagPathNameConstant                 = "path"
	flagPathDescriptionConstant          = "Inspect a repository path directly instead of a registered repository"
	gatewayCreationErrorTemplateConstant = "unable to construct repository gateway: %w"
	sessionCreationErrorTemplateConstant = "unable to construct repository session: %w"
	currentBranchMarkerConstant          = "*"
	detachedBranchMarkerConstant         = " "
	trackedBranchLineTemplateConstant    = "%s %s [%s ahead %d behind %d]\n"
	untrackedBranchLineTemplateConstant  = "%s %s\n"
	currentBranchLineTemplateConstant    = "On branch %s\n"
)

// CommandBuilder assembles the branches cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	RegistryProvider             RegistryProvider
	GitExecutor                  gitrepo.GitExecutor
}

// Build constructs the branches command.
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

	logger := resolveLogger(builder.LoggerProvider)
	gateway, gatewayError := builder.resolveGateway(logger)
	if gatewayError != nil {
		return gatewayError
	}

	configuredRepositoryID := builder.resolveConfiguration().Repository
	target, targetError := resolveTargetRepository(command, builder.RegistryProvider, configuredRepositoryID)
	if targetError != nil {
		return targetError
	}

	repositorySession, sessionError := session.NewSession(session.Dependencies{
		Gateway:          gateway,
		SettingsProvider: target.Registry,
		Logger:           logger,
	})
	if sessionError != nil {
		return fmt.Errorf(sessionCreationErrorTemplateConstant, sessionError)
	}

	repositorySession.SetActive(target.RepositoryID)
	if settingsError := repositorySession.LoadSettings(); settingsError != nil {
		return settingsError
	}
	if bootstrapError := repositorySession.Bootstrap(command.Context()); bootstrapError != nil {
		return bootstrapError
	}
	if refreshError := repositorySession.RefreshBranches(command.Context()); refreshError != nil {
		return refreshError
	}

	renderSnapshot(command.OutOrStdout(), repositorySession.Snapshot())
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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

func renderSnapshot(output io.Writer, snapshot session.Snapshot) {
	fmt.Fprintf(output, currentBranchLineTemplateConstant, snapshot.CurrentBranchName)
	for _, branch := range snapshot.Branches {
		fmt.Fprint(output, renderBranchLine(branch))
	}
}

func renderBranchLine(branch branchview.Branch) string {
	marker := detachedBranchMarkerConstant
	if branch.IsCurrent {
		marker = currentBranchMarkerConstant
	}
	if len(branch.Upstream) == 0 {
		return fmt.Sprintf(untrackedBranchLineTemplateConstant, marker, branch.Name)
	}
	return fmt.Sprintf(trackedBranchLineTemplateConstant, marker, branch.Name, branch.Upstream, branch.Ahead, branch.Behind)
}
