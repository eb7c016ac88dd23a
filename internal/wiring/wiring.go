// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bounds/internal/adapters/cargo"
	_ "go.trai.ch/bounds/internal/adapters/config"
	_ "go.trai.ch/bounds/internal/adapters/cratesio"
	_ "go.trai.ch/bounds/internal/adapters/logger"
	_ "go.trai.ch/bounds/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/bounds/internal/app"
)
