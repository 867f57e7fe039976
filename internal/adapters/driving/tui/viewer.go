package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driving/tui/messages"
	"github.com/pinpoint-labs/pinpoint-cli/internal/adapters/driving/tui/styles"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/domain"
	"github.com/pinpoint-labs/pinpoint-cli/internal/core/ports/driven"
	"github.com/pinpoint-labs/pinpoint-cli/internal/logger"
)

// state is the viewer's lifecycle state.
type state int

const (
	stateLoading state = iota
	stateReady
	stateError
)

// inputMode says which inline input, if any, currently owns the keyboard.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputGoto
)

const (
	minScale  = 0.5
	maxScale  = 3.0
	scaleStep = 0.25
)

// Viewer is the document viewer model.
type Viewer struct {
	ports  *Ports
	styles *styles.Styles
	ctx    context.Context
	target domain.ViewerTarget

	state  state
	errMsg string

	blobPath  string
	ownsSpool bool
	doc       driven.RenderedDocument
	pageCount int

	currentPage  int
	scale        float64
	scrollOffset int

	// rendered is the set of pages whose text extraction has completed;
	// inflight is the set with an extraction command outstanding.
	rendered   map[int]bool
	inflight   map[int]bool
	pageTexts  map[int]string
	renderErrs map[int]error

	// jumpFired guards the one-time jump to the citation's page.
	jumpFired bool

	query        string
	matches      []match
	currentMatch int

	mode  inputMode
	input textinput.Model

	spinner spinner.Model
	width   int
	height  int
}

// NewViewer creates a viewer model for a target.
func NewViewer(ports *Ports, target domain.ViewerTarget) *Viewer {
	s := spinner.New()
	s.Spinner = spinner.Dot

	input := textinput.New()
	input.CharLimit = 256

	return &Viewer{
		ports:       ports,
		styles:      styles.NewStyles(nil),
		ctx:         context.Background(),
		target:      target,
		state:       stateLoading,
		currentPage: 1,
		scale:       1.0,
		rendered:    make(map[int]bool),
		inflight:    make(map[int]bool),
		pageTexts:   make(map[int]string),
		renderErrs:  make(map[int]error),
		query:       target.Highlight,
		spinner:     s,
		input:       input,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for load and render operations.
func (m *Viewer) WithContext(ctx context.Context) {
	if ctx != nil {
		m.ctx = ctx
	}
}

// Init starts the spinner and kicks off the document load.
func (m *Viewer) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDocument())
}

// loadDocument resolves the document's blob and opens it. The hand-off is
// preferred when it matches the target; otherwise the viewer resolves a path
// itself and owns the resulting spool file.
func (m *Viewer) loadDocument() tea.Cmd {
	return func() tea.Msg {
		path := ""
		ownsSpool := false

		// The hand-off outlives the session that wrote it, so its spool
		// file may be long gone. Trust it only when the file still exists.
		if handoff, err := m.ports.Navigation.Handoff(m.ctx); err == nil &&
			handoff != nil && handoff.DocumentID == m.target.DocumentID {
			if _, err := os.Stat(handoff.BlobPath); err == nil {
				path = handoff.BlobPath
			}
		}

		if path == "" {
			resolved, err := m.ports.Navigation.ResolveBlobPath(m.ctx, m.target.DocumentID)
			if err != nil {
				return messages.DocumentLoaded{Err: err}
			}
			path = resolved
			ownsSpool = true
		}

		doc, err := m.ports.Renderer.Open(m.ctx, path)
		if err != nil {
			return messages.DocumentLoaded{Path: path, OwnsSpool: ownsSpool, Err: err}
		}

		return messages.DocumentLoaded{
			Path:      path,
			OwnsSpool: ownsSpool,
			Doc:       doc,
			PageCount: doc.PageCount(),
		}
	}
}

// renderPage extracts one page's text.
func (m *Viewer) renderPage(page int) tea.Cmd {
	doc := m.doc
	ctx := m.ctx
	return func() tea.Msg {
		if doc == nil {
			return messages.PageRendered{Page: page, Err: errors.New("no open document")}
		}
		text, err := doc.PageText(ctx, page)
		return messages.PageRendered{Page: page, Text: text, Err: err}
	}
}

// Update handles messages.
func (m *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case messages.DocumentLoaded:
		return m.handleDocumentLoaded(msg)

	case messages.PageRendered:
		return m.handlePageRendered(msg)

	case messages.ErrorOccurred:
		logger.Warn("viewer: %v", msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleDocumentLoaded transitions Loading into Ready or Error.
func (m *Viewer) handleDocumentLoaded(msg messages.DocumentLoaded) (tea.Model, tea.Cmd) {
	m.blobPath = msg.Path
	m.ownsSpool = msg.OwnsSpool

	if msg.Err != nil {
		m.state = stateError
		m.errMsg = loadErrorMessage(msg.Err)
		return m, nil
	}

	m.state = stateReady
	m.doc = msg.Doc
	m.pageCount = msg.PageCount

	// Render the first page and the citation's page now; the rest of the
	// document follows page by page so search and quote jumps see every
	// page's text, not just the visited ones.
	var cmds []tea.Cmd
	if cmd := m.scheduleRender(1); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.target.Page >= 1 && m.target.Page <= m.pageCount {
		if cmd := m.scheduleRender(m.target.Page); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// scheduleRender issues a render for a page unless one is already done or
// outstanding.
func (m *Viewer) scheduleRender(page int) tea.Cmd {
	if page < 1 || page > m.pageCount || m.rendered[page] || m.inflight[page] {
		return nil
	}
	m.inflight[page] = true
	return m.renderPage(page)
}

// nextUnrenderedPage returns the lowest page with no text yet and no render
// outstanding, or zero when extraction has covered the whole document.
func (m *Viewer) nextUnrenderedPage() int {
	for page := 1; page <= m.pageCount; page++ {
		if m.rendered[page] || m.inflight[page] {
			continue
		}
		if _, failed := m.renderErrs[page]; failed {
			continue
		}
		return page
	}
	return 0
}

// handlePageRendered records a page's text, recomputes dependent state, and
// keeps the extraction chain going until every page has text.
func (m *Viewer) handlePageRendered(msg messages.PageRendered) (tea.Model, tea.Cmd) {
	delete(m.inflight, msg.Page)

	if msg.Err != nil {
		m.renderErrs[msg.Page] = msg.Err
		return m, m.scheduleRender(m.nextUnrenderedPage())
	}

	m.rendered[msg.Page] = true
	m.pageTexts[msg.Page] = msg.Text
	delete(m.renderErrs, msg.Page)

	// Highlights are a pure function of the match state; a re-rendered
	// page gets its matches recomputed from scratch.
	m.recomputeMatches()

	m.maybeJump()
	return m, m.scheduleRender(m.nextUnrenderedPage())
}

// maybeJump performs the one-time jump to the citation's target. A citation
// with a page jumps there once the page's text has been rendered; a citation
// carrying only a quote jumps to the quote's first match instead. Either way
// the jump fires at most once and never overrides later manual navigation.
func (m *Viewer) maybeJump() {
	if m.jumpFired {
		return
	}

	page := m.target.Page
	if page == 0 {
		if m.target.Highlight == "" || len(m.matches) == 0 {
			return
		}
		m.jumpFired = true
		m.currentMatch = 0
		m.currentPage = m.matches[0].page
		m.scrollOffset = 0
		m.scrollToMatch()
		return
	}

	if page < 1 || page > m.pageCount {
		return
	}
	if !m.rendered[page] {
		return
	}

	m.jumpFired = true
	m.currentPage = page
	m.scrollOffset = 0

	if len(m.matches) > 0 {
		m.currentMatch = firstMatchOnOrAfter(m.matches, page)
		m.scrollToMatch()
	}
}

// recomputeMatches rebuilds the ordered match list and clamps the cursor.
func (m *Viewer) recomputeMatches() {
	m.matches = collectMatches(m.pageTexts, m.query)
	if m.currentMatch >= len(m.matches) {
		m.currentMatch = 0
	}
}

// handleKeyMsg routes keys by state and input mode.
func (m *Viewer) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateLoading:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, m.teardown()
		}
		return m, nil

	case stateError:
		// The error state is terminal: any dismissal key quits.
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, m.teardown()
		}
		return m, nil
	}

	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}
	return m.handleReadyKey(msg)
}

// handleInputKey feeds keys to the active inline input.
func (m *Viewer) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		if mode == inputSearch {
			return m.commitSearch(value)
		}
		return m.commitGoto(value)

	case "esc", "ctrl+c":
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleReadyKey handles keys while viewing pages.
func (m *Viewer) handleReadyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.teardown()

	case "up", "k":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case "down", "j":
		if m.scrollOffset < m.maxScrollOffset() {
			m.scrollOffset++
		}
	case "pgup", "ctrl+u":
		m.scrollOffset -= m.visibleLines()
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		m.scrollOffset += m.visibleLines()
		if m.scrollOffset > m.maxScrollOffset() {
			m.scrollOffset = m.maxScrollOffset()
		}
	case "g", "home":
		m.scrollOffset = 0
	case "G", "end":
		m.scrollOffset = m.maxScrollOffset()

	case "[", "left", "h":
		return m.setPage(m.currentPage - 1)
	case "]", "right", "l":
		return m.setPage(m.currentPage + 1)
	case ":":
		m.mode = inputGoto
		m.input.Placeholder = "page number"
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "+", "=":
		m.setScale(m.scale + scaleStep)
	case "-", "_":
		m.setScale(m.scale - scaleStep)

	case "/":
		m.mode = inputSearch
		m.input.Placeholder = "search"
		m.input.SetValue(m.query)
		m.input.Focus()
		return m, textinput.Blink
	case "esc":
		m.clearSearch()
	case "n":
		if len(m.matches) > 0 {
			m.currentMatch = nextMatch(len(m.matches), m.currentMatch)
			return m.applyCurrentMatch()
		}
	case "N":
		if len(m.matches) > 0 {
			m.currentMatch = prevMatch(len(m.matches), m.currentMatch)
			return m.applyCurrentMatch()
		}
	}

	return m, nil
}

// commitSearch installs a new query and moves to its first match.
func (m *Viewer) commitSearch(query string) (tea.Model, tea.Cmd) {
	m.query = query
	m.currentMatch = 0
	m.recomputeMatches()
	if len(m.matches) > 0 {
		m.currentMatch = firstMatchOnOrAfter(m.matches, m.currentPage)
		return m.applyCurrentMatch()
	}
	return m, nil
}

// commitGoto repositions to a manually entered page.
func (m *Viewer) commitGoto(value string) (tea.Model, tea.Cmd) {
	page, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return m, nil
	}
	return m.setPage(page)
}

// clearSearch drops the query and all match state.
func (m *Viewer) clearSearch() {
	m.query = ""
	m.matches = nil
	m.currentMatch = 0
}

// setPage repositions to a page immediately, clamped to range, and renders
// it when its text is not in yet.
func (m *Viewer) setPage(page int) (tea.Model, tea.Cmd) {
	if page < 1 {
		page = 1
	}
	if page > m.pageCount {
		page = m.pageCount
	}
	if page == m.currentPage {
		return m, nil
	}

	m.currentPage = page
	m.scrollOffset = 0
	if !m.rendered[page] {
		return m, m.scheduleRender(page)
	}
	return m, nil
}

// setScale clamps the text scale to [minScale, maxScale].
func (m *Viewer) setScale(scale float64) {
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	m.scale = scale
	if m.scrollOffset > m.maxScrollOffset() {
		m.scrollOffset = m.maxScrollOffset()
	}
}

// applyCurrentMatch brings the active match's page and position into view.
func (m *Viewer) applyCurrentMatch() (tea.Model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}
	mm := m.matches[m.currentMatch]
	if mm.page != m.currentPage {
		m.currentPage = mm.page
		m.scrollOffset = 0
		if !m.rendered[mm.page] {
			return m, m.scheduleRender(mm.page)
		}
	}
	m.scrollToMatch()
	return m, nil
}

// scrollToMatch centres the viewport on the active match.
func (m *Viewer) scrollToMatch() {
	if len(m.matches) == 0 {
		return
	}
	mm := m.matches[m.currentMatch]
	if mm.page != m.currentPage {
		return
	}

	line := m.matchLine(mm)
	offset := line - m.visibleLines()/2
	if offset < 0 {
		offset = 0
	}
	if offset > m.maxScrollOffset() {
		offset = m.maxScrollOffset()
	}
	m.scrollOffset = offset
}

// matchLine locates a match's line in the wrapped page text. Occurrence
// scanning; when wrapping split the match across lines, fall back to a
// proportional estimate.
func (m *Viewer) matchLine(mm match) int {
	text := m.pageTexts[mm.page]
	wrapped := wordwrap.String(text, m.wrapWidth())

	// Which occurrence of the query on this page is this match?
	occurrence := 0
	for _, other := range m.matches {
		if other.page != mm.page {
			continue
		}
		if other.start == mm.start {
			break
		}
		occurrence++
	}

	lowerWrapped := strings.ToLower(wrapped)
	lowerQuery := strings.ToLower(m.query)
	idx := 0
	for i := 0; ; i++ {
		found := strings.Index(lowerWrapped[idx:], lowerQuery)
		if found == -1 {
			if len(text) == 0 {
				return 0
			}
			totalLines := strings.Count(wrapped, "\n") + 1
			return mm.start * totalLines / len(text)
		}
		idx += found
		if i == occurrence {
			return strings.Count(wrapped[:idx], "\n")
		}
		idx += len(lowerQuery)
	}
}

// teardown closes the document, removes viewer-created spool files, and
// quits. The hand-off's path is never removed here.
func (m *Viewer) teardown() tea.Cmd {
	if m.doc != nil {
		if err := m.doc.Close(); err != nil {
			logger.Warn("closing document: %v", err)
		}
		m.doc = nil
	}
	if m.ownsSpool {
		if err := m.ports.Navigation.CleanupSpool(); err != nil {
			logger.Warn("cleaning spool: %v", err)
		}
	}
	return tea.Quit
}

// loadErrorMessage maps a load failure to its user-facing message.
func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingDocument), errors.Is(err, domain.ErrDocumentUnavailable):
		return "Document not found"
	case errors.Is(err, domain.ErrRenderFailed):
		return "Document was found but could not be rendered"
	default:
		return "Failed to load document"
	}
}

// ==================== Rendering ====================

// View renders the viewer.
func (m *Viewer) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n  %s Loading %s...\n", m.spinner.View(), m.target.DocumentID)
	case stateError:
		var b strings.Builder
		b.WriteString("\n  ")
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n\n  ")
		b.WriteString(m.styles.Help.Render("[q] quit"))
		b.WriteString("\n")
		return b.String()
	}
	return m.viewReady()
}

func (m *Viewer) viewReady() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.headerLine()))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(m.width-2, 72)))
	b.WriteString("\n")

	b.WriteString(m.viewPageContent())

	b.WriteString("\n")
	if m.mode != inputNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.statusLine())
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render(
		"[↑/↓] scroll  [[/]] page  [:] goto  [+/-] scale  [/] search  [n/N] match  [esc] clear  [q] quit"))

	return b.String()
}

// headerLine is the title row: document, page position, scale, match count.
func (m *Viewer) headerLine() string {
	header := fmt.Sprintf("%s · page %d/%d · %d%%",
		m.target.DocumentID, m.currentPage, m.pageCount, int(m.scale*100))
	if len(m.matches) > 0 {
		header += fmt.Sprintf(" · match %d/%d", m.currentMatch+1, len(m.matches))
	}
	return header
}

// viewPageContent renders the visible window of the current page.
func (m *Viewer) viewPageContent() string {
	if err, ok := m.renderErrs[m.currentPage]; ok {
		return m.styles.Error.Render(fmt.Sprintf("Page %d could not be rendered: %v", m.currentPage, err)) + "\n"
	}
	if !m.rendered[m.currentPage] {
		return m.styles.Muted.Render(fmt.Sprintf("Rendering page %d...", m.currentPage)) + "\n"
	}

	lines := m.visiblePageLines()
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// visiblePageLines returns the current scroll window of the wrapped,
// highlighted page text.
func (m *Viewer) visiblePageLines() []string {
	lines := m.pageLines()
	start := m.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + m.visibleLines()
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}

// pageLines wraps and highlights the current page. Highlights are recomputed
// from the match list on every render.
func (m *Viewer) pageLines() []string {
	text := m.pageTexts[m.currentPage]
	highlighted := m.highlightPage(text)
	wrapped := wordwrap.String(highlighted, m.wrapWidth())
	return strings.Split(wrapped, "\n")
}

// highlightPage applies match styling to the current page's raw text.
func (m *Viewer) highlightPage(text string) string {
	var pageMatches []match
	currentIdx := -1
	for i, mm := range m.matches {
		if mm.page != m.currentPage {
			continue
		}
		if i == m.currentMatch {
			currentIdx = len(pageMatches)
		}
		pageMatches = append(pageMatches, mm)
	}
	if len(pageMatches) == 0 {
		return text
	}

	var b strings.Builder
	pos := 0
	for i, mm := range pageMatches {
		if mm.start > len(text) {
			break
		}
		if mm.start > pos {
			b.WriteString(text[pos:mm.start])
		}
		end := mm.end
		if end > len(text) {
			end = len(text)
		}
		segment := text[mm.start:end]
		if i == currentIdx {
			b.WriteString(m.styles.CurrentMatch.Render(segment))
		} else {
			b.WriteString(m.styles.Match.Render(segment))
		}
		pos = end
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}

// statusLine summarises search state below the content.
func (m *Viewer) statusLine() string {
	if m.query == "" {
		return m.styles.Muted.Render(" ")
	}
	if len(m.matches) == 0 {
		return m.styles.Muted.Render(fmt.Sprintf("no matches for %q", m.query))
	}
	return m.styles.Muted.Render(fmt.Sprintf("%q: %d matches", m.query, len(m.matches)))
}

// wrapWidth is the wrap column for the current scale. Larger scale means a
// narrower column, which reads as larger text in a terminal.
func (m *Viewer) wrapWidth() int {
	width := int(float64(m.width-4) / m.scale)
	if width < 20 {
		width = 20
	}
	return width
}

// visibleLines is the content window height.
func (m *Viewer) visibleLines() int {
	// Header, separator, status, help
	reserved := 5
	available := m.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset is the furthest the current page can scroll.
func (m *Viewer) maxScrollOffset() int {
	text := m.pageTexts[m.currentPage]
	if text == "" {
		return 0
	}
	wrapped := wordwrap.String(text, m.wrapWidth())
	maxOffset := strings.Count(wrapped, "\n") + 1 - m.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
