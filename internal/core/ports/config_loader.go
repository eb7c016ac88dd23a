package ports

import "go.trai.ch/bounds/internal/core/domain"

// ConfigLoader defines the interface for loading the tool configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads bounds.yaml. When path is empty the file is searched for by
	// walking up from cwd; a missing file yields the defaults.
	Load(cwd, path string) (*domain.Config, error)
}
