package domain

// ParsedCitation is the canonical form of a citation after normalisation.
// It is derived fresh on every parse and never persisted.
type ParsedCitation struct {
	// DisplayText is the human-readable label, empty when none was found.
	DisplayText string

	// PageNumber is the 1-indexed target page. Zero means no page target;
	// a present page number is always a positive integer.
	PageNumber int

	// QuotedText is the verbatim excerpt to highlight, empty when absent.
	QuotedText string
}

// HasPage reports whether the citation carries a page target.
func (c ParsedCitation) HasPage() bool {
	return c.PageNumber > 0
}

// HasQuote reports whether the citation carries quoted text to highlight.
func (c ParsedCitation) HasQuote() bool {
	return c.QuotedText != ""
}

// Navigable reports whether the citation can drive navigation at all.
func (c ParsedCitation) Navigable() bool {
	return c.HasPage() || c.HasQuote()
}
