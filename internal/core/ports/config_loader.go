package ports

import "go.trai.ch/pathwatch/internal/core/domain"

// ConfigLoader defines the interface for loading the tracker configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the given project root.
	// Defaults are returned when no config file exists.
	Load(root string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd to find the project root.
	// Returns the nearest directory containing pathwatch.yaml or .git, or cwd itself.
	DiscoverRoot(cwd string) (string, error)
}
