package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	pathutils "github.com/temirov/repostate/internal/utils/path"
)

const (
	registryPathRequiredMessageConstant        = "registry path must be provided"
	registryWithoutRepositoriesMessageConstant = "registry must define at least one repository"
	registryReadErrorTemplateConstant          = "failed to read repository registry: %w"
	registryParseErrorTemplateConstant         = "failed to parse repository registry: %w"
	registryDecodeErrorTemplateConstant        = "failed to decode repository entries: %w"
	repositoryPathMissingTemplateConstant      = "repository %d must declare a path"
	repositoryDuplicateIDTemplateConstant      = "repository id %d declared more than once"
	repositoryNotFoundTemplateConstant         = "repository %d is not registered"
)

// ErrRegistryPathRequired indicates a registry load was requested without a file path.
var ErrRegistryPathRequired = errors.New(registryPathRequiredMessageConstant)

// ErrRegistryWithoutRepositories indicates the registry defined no repositories.
var ErrRegistryWithoutRepositories = errors.New(registryWithoutRepositoriesMessageConstant)

// RepositorySetting identifies one registered repository.
type RepositorySetting struct {
	ID   int    `yaml:"id" mapstructure:"id"`
	Name string `yaml:"name" mapstructure:"name"`
	Path string `yaml:"path" mapstructure:"path"`
}

// RepositoryNotFoundError reports a lookup for an unregistered repository id.
type RepositoryNotFoundError struct {
	ID int
}

// Error describes the failed lookup.
func (notFound RepositoryNotFoundError) Error() string {
	return fmt.Sprintf(repositoryNotFoundTemplateConstant, notFound.ID)
}

// Registry is a read-only collection of repository settings keyed by id.
type Registry struct {
	orderedSettings []RepositorySetting
	settingsByID    map[int]RepositorySetting
}

type registryFile struct {
	Repositories []RepositorySetting `yaml:"repositories"`
}

// NewRegistry validates the supplied settings and builds a Registry.
//
// Repository paths have home directory shortcuts expanded so downstream git
// commands always receive usable working directories.
func NewRegistry(repositorySettings []RepositorySetting) (*Registry, error) {
	if len(repositorySettings) == 0 {
		return nil, ErrRegistryWithoutRepositories
	}

	homeExpander := pathutils.NewHomeExpander()
	orderedSettings := make([]RepositorySetting, 0, len(repositorySettings))
	settingsByID := make(map[int]RepositorySetting, len(repositorySettings))
	for settingIndex, repositorySetting := range repositorySettings {
		trimmedPath := strings.TrimSpace(repositorySetting.Path)
		if len(trimmedPath) == 0 {
			return nil, fmt.Errorf(repositoryPathMissingTemplateConstant, repositorySetting.ID)
		}
		if _, alreadyRegistered := settingsByID[repositorySetting.ID]; alreadyRegistered {
			return nil, fmt.Errorf(repositoryDuplicateIDTemplateConstant, repositorySetting.ID)
		}

		normalizedSetting := repositorySettings[settingIndex]
		normalizedSetting.Path = homeExpander.Expand(trimmedPath)
		normalizedSetting.Name = strings.TrimSpace(normalizedSetting.Name)
		orderedSettings = append(orderedSettings, normalizedSetting)
		settingsByID[normalizedSetting.ID] = normalizedSetting
	}

	return &Registry{orderedSettings: orderedSettings, settingsByID: settingsByID}, nil
}

// LoadRegistry reads a YAML repository registry from disk.
func LoadRegistry(registryPath string) (*Registry, error) {
	trimmedRegistryPath := strings.TrimSpace(registryPath)
	if len(trimmedRegistryPath) == 0 {
		return nil, ErrRegistryPathRequired
	}

	registryContent, readError := os.ReadFile(trimmedRegistryPath)
	if readError != nil {
		return nil, fmt.Errorf(registryReadErrorTemplateConstant, readError)
	}

	var parsedRegistry registryFile
	if unmarshalError := yaml.Unmarshal(registryContent, &parsedRegistry); unmarshalError != nil {
		return nil, fmt.Errorf(registryParseErrorTemplateConstant, unmarshalError)
	}

	return NewRegistry(parsedRegistry.Repositories)
}

// RegistryFromConfiguration decodes repository entries supplied through the
// application configuration (viper produces loosely typed maps).
func RegistryFromConfiguration(rawRepositories []map[string]any) (*Registry, error) {
	decodedSettings := make([]RepositorySetting, 0, len(rawRepositories))
	for _, rawRepository := range rawRepositories {
		var decodedSetting RepositorySetting
		if decodeError := mapstructure.Decode(rawRepository, &decodedSetting); decodeError != nil {
			return nil, fmt.Errorf(registryDecodeErrorTemplateConstant, decodeError)
		}
		decodedSettings = append(decodedSettings, decodedSetting)
	}
	return NewRegistry(decodedSettings)
}

// GetRepository resolves the settings registered for the supplied id.
func (registry *Registry) GetRepository(repositoryID int) (RepositorySetting, error) {
	repositorySetting, repositoryKnown := registry.settingsByID[repositoryID]
	if !repositoryKnown {
		return RepositorySetting{}, RepositoryNotFoundError{ID: repositoryID}
	}
	return repositorySetting, nil
}

// Repositories returns the registered settings in declaration order.
func (registry *Registry) Repositories() []RepositorySetting {
	duplicatedSettings := make([]RepositorySetting, len(registry.orderedSettings))
	copy(duplicatedSettings, registry.orderedSettings)
	return duplicatedSettings
}
