// Package dependencies assembles default collaborators for command builders.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/execshell"
	"github.com/temirov/repostate/internal/gitrepo"
	"github.com/temirov/repostate/internal/ui"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// When humanReadableLogging is enabled the executor announces command lifecycle events
// through a console-oriented observer in addition to structured logging.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewCommandEventLogger(logger))
		if creationError != nil {
			return nil, creationError
		}
		return shellExecutor, nil
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGateway returns the provided gateway or constructs one from the executor.
func ResolveGateway(existing *gitrepo.Gateway, executor gitrepo.GitExecutor) (*gitrepo.Gateway, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewGateway(executor)
}
