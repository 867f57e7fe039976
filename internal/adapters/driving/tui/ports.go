// Package tui provides the interactive terminal document viewer.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the viewer.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Navigation resolves document blobs and the viewer hand-off.
	Navigation driving.NavigationService

	// Renderer parses document binaries into pages.
	Renderer driven.DocumentRenderer
}
