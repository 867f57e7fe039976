// Package citations normalises the heterogeneous citation values produced by
// the upstream analysis service into a single navigable form. Citations
// arrive either as free text or as loosely-shaped JSON objects whose field
// names vary between analysis endpoints; the accepted names per concept are
// explicit ordered tables so the precedence is auditable in isolation.
//
// Parsing never fails: malformed input degrades to empty fields, because
// citations come from a best-effort extraction process and a bad one must not
// take the navigation UI down with it.
package citations

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

// Accepted field names per concept, checked in order. The upstream schema is
// uncontrolled; these cover every shape seen from the analysis endpoints.
var (
	labelKeys = []string{"label", "text", "display_text", "displayText", "citation"}
	pageKeys  = []string{"page_number", "pageNumber", "page", "page_num", "pg"}
	quoteKeys = []string{"quoted_text", "quotedText", "quote", "excerpt", "snippet"}
)

var (
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
	pageRangeRe  = regexp.MustCompile(`^(\d+)\s*[-\x{2010}\x{2013}\x{2014}]\s*\d+$`)
	pageWordRe   = regexp.MustCompile(`(?i)\b(?:pages?|pg\.?|p\.?)\s*(\d+)`)
	trailingNoRe = regexp.MustCompile(`,\s*(\d+)\s*$`)
)

// Parse converts any citation value into its canonical form. Accepts nil,
// plain strings, and decoded JSON objects (map[string]any). Anything else is
// treated as unparseable and yields the zero result.
func Parse(citation any) domain.ParsedCitation {
	switch v := citation.(type) {
	case nil:
		return domain.ParsedCitation{}
	case string:
		return domain.ParsedCitation{
			DisplayText: v,
			PageNumber:  pageFromText(v),
		}
	case map[string]any:
		return parseObject(v)
	default:
		return domain.ParsedCitation{}
	}
}

// CanNavigate reports whether the citation yields a page target or quoted
// text. UI code must not attempt navigation when this is false.
func CanNavigate(citation any) bool {
	return Parse(citation).Navigable()
}

// DisplayText returns only the human-readable label, "" for nil input.
func DisplayText(citation any) string {
	return Parse(citation).DisplayText
}

func parseObject(obj map[string]any) domain.ParsedCitation {
	parsed := domain.ParsedCitation{
		DisplayText: firstString(obj, labelKeys),
		QuotedText:  firstString(obj, quoteKeys),
	}

	// A structured page field always wins over anything embedded in the
	// label text.
	parsed.PageNumber = firstPage(obj, pageKeys)
	if parsed.PageNumber == 0 {
		parsed.PageNumber = pageFromText(parsed.DisplayText)
	}
	return parsed
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstPage(obj map[string]any, keys []string) int {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if page := asPositiveInt(raw); page > 0 {
			return page
		}
	}
	return 0
}

// asPositiveInt coerces the numeric shapes JSON decoding can produce.
// Non-integral and non-positive values count as absent.
func asPositiveInt(raw any) int {
	switch v := raw.(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 && v == float64(int(v)) {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// pageFromText extracts a page number from free text. Precedence, first
// match wins:
//
//  1. the entire trimmed text is digits only
//  2. a numeric range "N-M" (ASCII hyphen, en dash, em dash) → N
//  3. "page N", "pages N", "p. N", "pg. N", "pN" (case-insensitive)
//  4. a trailing ", N"
//
// Matches that are zero or overflow are skipped, falling through to the next
// rule. Returns 0 when nothing matches.
func pageFromText(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	if digitsOnlyRe.MatchString(trimmed) {
		if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
			return n
		}
	}
	if m := pageRangeRe.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := pageWordRe.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := trailingNoRe.FindStringSubmatch(trimmed); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
