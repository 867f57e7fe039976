// Package open implements the ContextOpener port by spawning a detached
// viewer process. Each navigation gets its own viewing context; the spawned
// process resolves the target URL independently, so a dead link there never
// propagates back into the caller.
package open

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/logger"
)

// ExecOpener launches `pinpoint view <url>` as a detached process.
type ExecOpener struct {
	// Binary overrides the executable used to spawn the viewer. Empty
	// means the current executable.
	Binary string
}

var _ driven.ContextOpener = (*ExecOpener)(nil)

// NewExecOpener creates an opener that re-invokes the current binary.
func NewExecOpener() *ExecOpener {
	return &ExecOpener{}
}

// Open spawns the viewer and returns without waiting for it to exit.
func (o *ExecOpener) Open(targetURL string) error {
	binary := o.Binary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locating executable: %w", err)
		}
		binary = exe
	}

	cmd := exec.Command(binary, "view", targetURL)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Debug("spawning viewer: %s view %s", binary, targetURL)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting viewer process: %w", err)
	}

	// Detach: the viewer owns its own lifecycle from here.
	go func() { _ = cmd.Wait() }()
	return nil
}

// FuncOpener adapts a function to the ContextOpener port. Used when the
// caller wants to run the viewer in-process instead of spawning.
type FuncOpener func(targetURL string) error

var _ driven.ContextOpener = (FuncOpener)(nil)

// Open invokes the wrapped function.
func (f FuncOpener) Open(targetURL string) error {
	return f(targetURL)
}
