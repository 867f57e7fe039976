package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
)

func TestOpen_MissingFile(t *testing.T) {
	renderer := NewRenderer()

	_, err := renderer.Open(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, domain.ErrRenderFailed)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	renderer := NewRenderer()

	_, err := renderer.Open(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrRenderFailed)
}
