package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driving"
)

// fakeNavigationService records OpenDocumentAtCitation calls.
type fakeNavigationService struct {
	gotCtx      context.Context
	gotDocID    string
	gotCitation any
	target      domain.ViewerTarget
	err         error
}

var _ driving.NavigationService = (*fakeNavigationService)(nil)

func (f *fakeNavigationService) OpenDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error) {
	f.gotCtx = ctx
	f.gotDocID = documentID
	f.gotCitation = citation
	return f.target, f.err
}

func (f *fakeNavigationService) PrepareDocumentAtCitation(ctx context.Context, documentID string, citation any) (domain.ViewerTarget, error) {
	f.gotCtx = ctx
	f.gotDocID = documentID
	f.gotCitation = citation
	return f.target, f.err
}

func (f *fakeNavigationService) ResolveBlobPath(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeNavigationService) Handoff(context.Context) (*domain.Handoff, error) {
	return nil, nil
}

func (f *fakeNavigationService) CleanupSpool() error { return nil }

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

type ctxKey string

func TestOpenCmd_ThreadsCommandContext(t *testing.T) {
	fake := &fakeNavigationService{target: domain.ViewerTarget{DocumentID: "doc-1"}}
	SetNavigationService(fake)
	defer SetNavigationService(nil)

	ctx := context.WithValue(context.Background(), ctxKey("request"), "r-1")
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"open", "doc-1"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.ExecuteContext(ctx))

	require.NotNil(t, fake.gotCtx)
	assert.Equal(t, "r-1", fake.gotCtx.Value(ctxKey("request")))
}

func TestOpenCmd_NotConfigured(t *testing.T) {
	SetNavigationService(nil)

	_, err := execute(t, "open", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "navigation service not configured")
}

func TestOpenCmd_FreeTextCitation(t *testing.T) {
	fake := &fakeNavigationService{target: domain.ViewerTarget{DocumentID: "doc-1", Page: 12}}
	SetNavigationService(fake)
	defer SetNavigationService(nil)

	out, err := execute(t, "open", "doc-1", "Page 12")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", fake.gotDocID)
	assert.Equal(t, "Page 12", fake.gotCitation)
	assert.Contains(t, out, "page 12")
}

func TestOpenCmd_FlagsWinOverFreeText(t *testing.T) {
	fake := &fakeNavigationService{target: domain.ViewerTarget{DocumentID: "doc-1", Page: 4}}
	SetNavigationService(fake)
	defer SetNavigationService(nil)

	_, err := execute(t, "open", "doc-1", "Page 12", "--page", "4", "--quote", "base rent")
	defer func() {
		openPage = 0
		openQuote = ""
	}()

	require.NoError(t, err)
	citation, ok := fake.gotCitation.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4, citation["page_number"])
	assert.Equal(t, "base rent", citation["quoted_text"])
	assert.Equal(t, "Page 12", citation["label"])
}

func TestOpenCmd_NoCitation(t *testing.T) {
	fake := &fakeNavigationService{target: domain.ViewerTarget{DocumentID: "doc-1"}}
	SetNavigationService(fake)
	defer SetNavigationService(nil)

	out, err := execute(t, "open", "doc-1")

	require.NoError(t, err)
	assert.Nil(t, fake.gotCitation)
	assert.Contains(t, out, "Opened doc-1.")
}

func TestOpenCmd_PrintTarget(t *testing.T) {
	fake := &fakeNavigationService{target: domain.ViewerTarget{DocumentID: "doc-1", Page: 2}}
	SetNavigationService(fake)
	defer SetNavigationService(nil)
	defer func() { openPrint = false }()

	out, err := execute(t, "open", "doc-1", "--print")

	require.NoError(t, err)
	assert.Contains(t, out, "pinpoint://viewer?")
	assert.Contains(t, out, "docId=doc-1")
	assert.Contains(t, out, "page=2")
}

func TestOpenCmd_ServiceError(t *testing.T) {
	fake := &fakeNavigationService{err: domain.ErrDocumentUnavailable}
	SetNavigationService(fake)
	defer SetNavigationService(nil)

	_, err := execute(t, "open", "doc-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDocumentUnavailable)
}
