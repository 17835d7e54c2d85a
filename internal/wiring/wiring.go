// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/flock/internal/adapters/cas"
	_ "go.trai.ch/flock/internal/adapters/config"
	_ "go.trai.ch/flock/internal/adapters/logger"
	_ "go.trai.ch/flock/internal/adapters/sheet"
	_ "go.trai.ch/flock/internal/adapters/table"
	_ "go.trai.ch/flock/internal/adapters/telemetry"
	_ "go.trai.ch/flock/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/flock/internal/app"
)
