package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/config/file"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/fetch"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/open"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/render/pdf"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/resolve"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driving/cli"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/services"
	"github.com/pinpoint-labs/pinpoint-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	defaultConfigDirName = ".pinpoint"
	defaultDataDirName   = "data"

	// defaultCacheMaxBytes bounds the document cache at 512 MiB.
	defaultCacheMaxBytes = 512 << 20

	defaultResolverBaseURL = "https://api.pinpoint.dev"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determining home directory: %w", err)
	}
	configDir := filepath.Join(home, defaultConfigDirName)

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	if configStore.GetBool(driven.ConfigVerbose) {
		logger.SetVerbose(true)
	}

	dataDir := configStore.GetString(driven.ConfigDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(configDir, defaultDataDirName)
	}

	cacheMaxBytes := int64(configStore.GetInt(driven.ConfigCacheMaxBytes))
	if _, ok := configStore.Get(driven.ConfigCacheMaxBytes); !ok {
		cacheMaxBytes = defaultCacheMaxBytes
	}

	store, err := sqlite.NewStore(dataDir, cacheMaxBytes)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}
	defer store.Close()

	baseURL := configStore.GetString(driven.ConfigResolverBaseURL)
	if baseURL == "" {
		baseURL = defaultResolverBaseURL
	}
	resolver := resolve.NewClient(baseURL, nil)

	var fetchClient *http.Client
	if seconds := configStore.GetInt(driven.ConfigFetchTimeoutSeconds); seconds > 0 {
		fetchClient = &http.Client{Timeout: time.Duration(seconds) * time.Second}
	}
	fetcher := fetch.NewClient(fetchClient)

	navigation, err := services.NewNavigationService(
		store.BlobStore(),
		store.HandoffStore(),
		resolver,
		fetcher,
		open.NewExecOpener(),
	)
	if err != nil {
		return fmt.Errorf("creating navigation service: %w", err)
	}

	cli.SetNavigationService(navigation)
	cli.SetBlobStore(store.BlobStore())
	cli.SetViewerConfig(&cli.ViewerConfig{
		Navigation: navigation,
		Renderer:   pdf.NewRenderer(),
	})
	cli.SetVersion(version)

	return cli.Execute()
}
