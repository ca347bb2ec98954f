package branches

const (
	configurationRepositoryKeyConstant = "repository"
)

// CommandConfiguration captures configuration values for the branches command.
type CommandConfiguration struct {
	Repository int `mapstructure:"repository"`
}

// DefaultCommandConfiguration provides baseline configuration values for branch listings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Repository: 0}
}

// DefaultConfigurationValues exposes the configuration defaults keyed for viper registration.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationRepositoryKeyConstant: defaults.Repository,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	return configuration
}
