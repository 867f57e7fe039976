package driven

// Configuration keys used across the application.
const (
	// ConfigDataDir overrides the default ~/.pinpoint data directory.
	ConfigDataDir = "data_dir"

	// ConfigCacheMaxBytes bounds the document-namespace cache size.
	ConfigCacheMaxBytes = "cache.max_bytes"

	// ConfigFetchTimeoutSeconds bounds a single remote blob download.
	ConfigFetchTimeoutSeconds = "fetch.timeout_seconds"

	// ConfigResolverBaseURL is the document service endpoint.
	ConfigResolverBaseURL = "resolver.base_url"

	// ConfigVerbose enables debug logging without the --verbose flag.
	ConfigVerbose = "verbose"
)

// ConfigStore provides persistent key/value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error
}
