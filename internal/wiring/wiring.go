// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/xtc/internal/adapters/archive"
	_ "go.trai.ch/xtc/internal/adapters/cas"
	_ "go.trai.ch/xtc/internal/adapters/config"
	_ "go.trai.ch/xtc/internal/adapters/env"
	_ "go.trai.ch/xtc/internal/adapters/fs"
	_ "go.trai.ch/xtc/internal/adapters/logger"
	_ "go.trai.ch/xtc/internal/adapters/publish"
	_ "go.trai.ch/xtc/internal/adapters/shell"
	_ "go.trai.ch/xtc/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/xtc/internal/app"
	_ "go.trai.ch/xtc/internal/engine/batch"
	_ "go.trai.ch/xtc/internal/engine/driver"
	_ "go.trai.ch/xtc/internal/engine/sequencer"
)
