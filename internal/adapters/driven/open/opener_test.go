package open

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncOpener(t *testing.T) {
	var got string
	opener := FuncOpener(func(targetURL string) error {
		got = targetURL
		return nil
	})

	require.NoError(t, opener.Open("pinpoint://viewer?docId=doc-1"))
	assert.Equal(t, "pinpoint://viewer?docId=doc-1", got)

	failing := FuncOpener(func(string) error { return errors.New("boom") })
	assert.Error(t, failing.Open("pinpoint://viewer"))
}

func TestExecOpener_MissingBinary(t *testing.T) {
	opener := &ExecOpener{Binary: "/nonexistent/pinpoint-binary"}

	err := opener.Open("pinpoint://viewer?docId=doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting viewer process")
}
