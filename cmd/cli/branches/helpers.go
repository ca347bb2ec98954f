package branches

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/settings"
)

const (
	unexpectedArgumentsMessageConstant = "branches does not accept positional arguments"
	registryUnavailableMessageConstant = "no repository registry configured; declare repositories in the configuration file or pass --path"
	adHocRepositoryIdentifierConstant  = 1
)

var (
	errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)
	errRegistryUnavailable = errors.New(registryUnavailableMessageConstant)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// RegistryProvider supplies the persisted repository registry.
type RegistryProvider func() (*settings.Registry, error)

// TargetRepository pairs the registry to consult with the repository id to activate.
type TargetRepository struct {
	Registry     *settings.Registry
	RepositoryID int
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveTargetRepository picks the repository to operate on. A --path flag
// wins over the registry and produces a synthetic single-entry registry; a
// --repo flag wins over the configured repository id; the first registered
// repository is the final fallback.
func resolveTargetRepository(command *cobra.Command, registryProvider RegistryProvider, configuredRepositoryID int) (TargetRepository, error) {
	pathValue, _ := command.Flags().GetString(flagPathNameConstant)
	trimmedPath := strings.TrimSpace(pathValue)
	if len(trimmedPath) > 0 {
		adHocRegistry, registryError := settings.NewRegistry([]settings.RepositorySetting{{
			ID:   adHocRepositoryIdentifierConstant,
			Name: filepath.Base(trimmedPath),
			Path: trimmedPath,
		}})
		if registryError != nil {
			return TargetRepository{}, registryError
		}
		return TargetRepository{Registry: adHocRegistry, RepositoryID: adHocRepositoryIdentifierConstant}, nil
	}

	if registryProvider == nil {
		return TargetRepository{}, errRegistryUnavailable
	}
	registry, registryError := registryProvider()
	if registryError != nil {
		return TargetRepository{}, registryError
	}

	repositoryID := configuredRepositoryID
	if command.Flags().Changed(flagRepositoryNameConstant) {
		repositoryID, _ = command.Flags().GetInt(flagRepositoryNameConstant)
	}
	if repositoryID == 0 {
		registeredRepositories := registry.Repositories()
		repositoryID = registeredRepositories[0].ID
	}

	return TargetRepository{Registry: registry, RepositoryID: repositoryID}, nil
}
