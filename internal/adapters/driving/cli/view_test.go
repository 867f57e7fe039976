package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

func TestViewTarget(t *testing.T) {
	resetFlags := func() {
		viewDoc = ""
		viewPage = 0
		viewHighlight = ""
	}

	t.Run("ParsesTargetURL", func(t *testing.T) {
		resetFlags()
		target, err := viewTarget([]string{"pinpoint://viewer?docId=doc-1&page=4&highlight=glucose"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", target.DocumentID)
		assert.Equal(t, 4, target.Page)
		assert.Equal(t, "glucose", target.Highlight)
	})

	t.Run("BuildsTargetFromFlags", func(t *testing.T) {
		resetFlags()
		viewDoc = "doc-2"
		viewPage = 7
		viewHighlight = "mitochondria"
		defer resetFlags()

		target, err := viewTarget(nil)

		require.NoError(t, err)
		assert.Equal(t, domain.ViewerTarget{DocumentID: "doc-2", Page: 7, Highlight: "mitochondria"}, target)
	})

	t.Run("RejectsMalformedURL", func(t *testing.T) {
		resetFlags()
		_, err := viewTarget([]string{"https://example.com/not-a-viewer-target"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid viewer target")
	})

	t.Run("RequiresDocWhenNoURLGiven", func(t *testing.T) {
		resetFlags()
		_, err := viewTarget(nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--doc is required")
	})
}

func TestViewCommand_NotConfigured(t *testing.T) {
	original := viewerConfig
	viewerConfig = nil
	defer func() { viewerConfig = original }()

	_, err := execute(t, "view", "--doc", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewer not configured")
}
