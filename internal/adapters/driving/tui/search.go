package tui

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// match is one search hit: a byte range within a page's raw text.
type match struct {
	page  int
	start int
	end   int
}

// findPageMatches scans one page's text for case-insensitive substring
// matches, in offset order. Match offsets refer to the original text, not
// its lowered form; case folding can change a rune's byte length, so the
// scan keeps a byte-offset map from the folded text back to the original.
func findPageMatches(page int, text, query string) []match {
	lowerQuery := strings.ToLower(query)
	if lowerQuery == "" {
		return nil
	}

	var folded strings.Builder
	folded.Grow(len(text))
	backmap := make([]int, 0, len(text)+1)
	for i, r := range text {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			backmap = append(backmap, i)
		}
		folded.WriteRune(lr)
	}
	backmap = append(backmap, len(text))
	lowerText := folded.String()

	var matches []match
	searchIdx := 0
	for {
		idx := strings.Index(lowerText[searchIdx:], lowerQuery)
		if idx == -1 {
			break
		}
		foldedStart := searchIdx + idx
		foldedEnd := foldedStart + len(lowerQuery)
		matches = append(matches, match{
			page:  page,
			start: backmap[foldedStart],
			end:   backmap[foldedEnd],
		})
		searchIdx = foldedEnd
		if searchIdx >= len(lowerText) {
			break
		}
	}
	return matches
}

// collectMatches recomputes the full ordered match list from the currently
// rendered page texts. Matches are ordered by page, then by offset; the list
// is a pure function of (pageTexts, query).
func collectMatches(pageTexts map[int]string, query string) []match {
	if query == "" {
		return nil
	}

	pages := make([]int, 0, len(pageTexts))
	for page := range pageTexts {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	var matches []match
	for _, page := range pages {
		matches = append(matches, findPageMatches(page, pageTexts[page], query)...)
	}
	return matches
}

// nextMatch returns the match index after current, wrapping around.
func nextMatch(total, current int) int {
	if total == 0 {
		return 0
	}
	return (current + 1) % total
}

// prevMatch returns the match index before current, wrapping around.
func prevMatch(total, current int) int {
	if total == 0 {
		return 0
	}
	return (current - 1 + total) % total
}

// firstMatchOnOrAfter returns the index of the first match on page or a later
// page, wrapping to 0 when none exists.
func firstMatchOnOrAfter(matches []match, page int) int {
	for i, m := range matches {
		if m.page >= page {
			return i
		}
	}
	return 0
}
