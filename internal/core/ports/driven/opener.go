package driven

// ContextOpener opens a new viewing context at a target URL. Fire-and-forget
// from the bridge's perspective: Open returns once the context has been
// launched, without awaiting its lifecycle.
type ContextOpener interface {
	Open(targetURL string) error
}
