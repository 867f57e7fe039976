// Package driven defines the interfaces the core consumes: blob storage,
// hand-off persistence, remote document resolution, blob fetching, page
// rendering, and context opening. Adapters implement these ports; the core
// never imports an adapter.
package driven
