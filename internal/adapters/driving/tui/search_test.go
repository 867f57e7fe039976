package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPageMatches(t *testing.T) {
	t.Run("CaseInsensitiveInOffsetOrder", func(t *testing.T) {
		matches := findPageMatches(1, "Alpha beta alpha", "alpha")

		require.Len(t, matches, 2)
		assert.Equal(t, match{page: 1, start: 0, end: 5}, matches[0])
		assert.Equal(t, match{page: 1, start: 11, end: 16}, matches[1])
	})

	t.Run("EmptyQueryMatchesNothing", func(t *testing.T) {
		assert.Empty(t, findPageMatches(1, "some text", ""))
	})

	t.Run("OffsetsStayAlignedWhenFoldingShrinksRunes", func(t *testing.T) {
		// The dotted capital I folds from two bytes to one, shifting every
		// later lowered offset relative to the original text.
		text := "İstanbul istanbul"
		matches := findPageMatches(1, text, "istanbul")

		require.Len(t, matches, 2)
		assert.Equal(t, "İstanbul", text[matches[0].start:matches[0].end])
		assert.Equal(t, "istanbul", text[matches[1].start:matches[1].end])
	})
}
