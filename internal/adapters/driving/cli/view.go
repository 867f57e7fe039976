package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driving/tui"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driving"
)

// ViewerConfig holds the collaborators for the view command.
type ViewerConfig struct {
	Navigation driving.NavigationService
	Renderer   driven.DocumentRenderer
}

// viewerConfig holds the current viewer configuration.
var viewerConfig *ViewerConfig

var viewCmd = &cobra.Command{
	Use:   "view [target-url]",
	Short: "Launch the document viewer",
	Long: `Launch the terminal document viewer at a viewer target URL
(pinpoint://viewer?docId=...&page=...&highlight=...), or at a target
assembled from the --doc, --page and --highlight flags.

Controls:
  ↑/k, ↓/j - Scroll
  [/]      - Previous / next page
  +/-      - Adjust text scale
  /        - Search
  n/N      - Next / previous match
  Esc      - Clear search
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

var (
	viewDoc       string
	viewPage      int
	viewHighlight string
)

// SetViewerConfig sets the configuration for the view command.
func SetViewerConfig(config *ViewerConfig) {
	viewerConfig = config
}

func init() {
	viewCmd.Flags().StringVar(&viewDoc, "doc", "", "Document id to view")
	viewCmd.Flags().IntVar(&viewPage, "page", 0, "Page to jump to (1-indexed)")
	viewCmd.Flags().StringVar(&viewHighlight, "highlight", "", "Text to highlight")

	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	target, err := viewTarget(args)
	if err != nil {
		return err
	}
	return runViewerAt(cmd, target)
}

// viewTarget builds the viewer target from the positional URL or the flags.
func viewTarget(args []string) (domain.ViewerTarget, error) {
	if len(args) == 1 {
		target, err := domain.ParseViewerTarget(args[0])
		if err != nil {
			return domain.ViewerTarget{}, fmt.Errorf("invalid viewer target: %w", err)
		}
		return target, nil
	}

	if viewDoc == "" {
		return domain.ViewerTarget{}, errors.New("a target URL or --doc is required")
	}
	return domain.ViewerTarget{
		DocumentID: viewDoc,
		Page:       viewPage,
		Highlight:  viewHighlight,
	}, nil
}

// runViewerAt runs the bubbletea viewer program at a target.
func runViewerAt(cmd *cobra.Command, target domain.ViewerTarget) error {
	if viewerConfig == nil || viewerConfig.Navigation == nil || viewerConfig.Renderer == nil {
		return errors.New("viewer not configured")
	}

	// Panic recovery keeps a stack trace visible after the alt screen resets
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in viewer: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	viewer := tui.NewViewer(&tui.Ports{
		Navigation: viewerConfig.Navigation,
		Renderer:   viewerConfig.Renderer,
	}, target)
	viewer.WithContext(cmd.Context())

	p := tea.NewProgram(viewer, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}

	return nil
}
