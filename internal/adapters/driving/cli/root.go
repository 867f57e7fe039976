// Package cli wires the cobra command tree. Services are injected by the
// composition root before Execute runs; commands guard against a missing
// service instead of constructing their own.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driving"
	"github.com/pinpoint-labs/pinpoint-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Injected services.
var (
	navigationService driving.NavigationService
	blobStore         driven.BlobStore
)

var rootCmd = &cobra.Command{
	Use:   "pinpoint",
	Short: "Open documents at the exact place a citation points to",
	Long: `Pinpoint resolves citation references against locally cached document
binaries and opens a viewer at the cited page, with the quoted text
highlighted.

Document bytes are cached in a local store; a document is fetched from the
backend at most once and served locally afterwards.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// SetNavigationService injects the navigation service.
func SetNavigationService(s driving.NavigationService) {
	navigationService = s
}

// SetBlobStore injects the blob store used by the cache commands.
func SetBlobStore(s driven.BlobStore) {
	blobStore = s
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
