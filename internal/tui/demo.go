package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/types"
)

// InitialText seeds the editor so the demo opens with one detection.
const InitialText = "Here is my secret api key: sk-1234567890abcdef1234567890abcdef"

const (
	editorHeight = 10
	statusTTL    = 3 * time.Second
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type focusArea int

const (
	focusEditor focusArea = iota
	focusResults
)

type statusMsg string

type clearStatusMsg struct{ at time.Time }

// Model is the live demo: an editor that is rescanned on every change and a
// list of result cards under it.
type Model struct {
	editor   textarea.Model
	viewport viewport.Model
	scanner  *engine.Scanner
	results  []types.DetectionResult
	lastText string

	focus    focusArea
	selected int
	prefs    Prefs

	ready    bool
	quitting bool
	width    int
	height   int

	statusMessage string
	statusAt      time.Time
}

// Options configure NewModel.
type Options struct {
	// Text replaces InitialText when non-empty.
	Text    string
	Scanner *engine.Scanner // nil means engine.Default()
	Prefs   Prefs
}

// NewModel initializes the demo and runs the first scan.
func NewModel(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste text here..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(editorHeight)
	ta.Focus()

	text := opts.Text
	if text == "" {
		text = InitialText
	}
	ta.SetValue(text)

	sc := opts.Scanner
	if sc == nil {
		sc = engine.Default()
	}

	m := Model{
		editor:   ta,
		viewport: viewport.New(0, 0),
		scanner:  sc,
		prefs:    opts.Prefs,
		selected: -1,
	}
	m.rescan()
	m.statusMessage = "tab: results | ctrl+t: hide/show matches | esc: quit"
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Results returns the detections for the current editor text.
func (m Model) Results() []types.DetectionResult { return m.results }

// rescan scans the editor text if it changed since the last scan.
func (m *Model) rescan() {
	text := m.editor.Value()
	if m.results != nil && text == m.lastText {
		return
	}
	m.lastText = text
	m.results = m.scanner.Scan(text)
	if m.selected >= len(m.results) {
		m.selected = len(m.results) - 1
	}
	m.refreshResults()
}

func (m *Model) cardOptions() CardOptions {
	sel := -1
	if m.focus == focusResults {
		sel = m.selected
	}
	return CardOptions{Width: m.width, Selected: sel, HideMatches: m.prefs.HideMatches}
}

func (m *Model) refreshResults() {
	opts := m.cardOptions()
	m.viewport.SetContent(RenderResults(m.results, opts))
	if opts.Selected < 0 {
		return
	}
	top := cardOffset(m.results, opts, opts.Selected)
	bottom := top + lipgloss.Height(RenderCard(m.results[opts.Selected], opts.Width, true, opts.HideMatches))
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.editor.SetWidth(max(10, width-2))
	// title, subtitle, editor border, status bar
	used := 2 + editorHeight + 2 + 1
	m.viewport.Width = width
	m.viewport.Height = max(3, height-used)
	m.ready = true
	m.refreshResults()
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusMessage = s
	m.statusAt = time.Now()
	at := m.statusAt
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{at: at} })
}

func (m Model) selectedResult() *types.DetectionResult {
	if m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	return &m.results[m.selected]
}

// copyMatch copies the selected card's raw match to the clipboard.
func (m Model) copyMatch() tea.Cmd {
	r := m.selectedResult()
	if r == nil {
		return func() tea.Msg { return statusMsg("No detection selected") }
	}
	if err := writeClipboard(r.Match); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied %s match", r.Type)) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case statusMsg:
		return m, m.setStatus(string(msg))

	case clearStatusMsg:
		if msg.at.Equal(m.statusAt) {
			m.statusMessage = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+t":
			m.prefs.HideMatches = !m.prefs.HideMatches
			_ = SavePrefs(m.prefs)
			m.refreshResults()
			if m.prefs.HideMatches {
				return m, m.setStatus("Matches hidden")
			}
			return m, m.setStatus("Matches shown")
		}
		if m.focus == focusResults {
			return m.updateResults(msg)
		}
		switch msg.String() {
		case "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if len(m.results) == 0 {
				return m, m.setStatus("Nothing to select")
			}
			m.focus = focusResults
			m.editor.Blur()
			m.selected = max(m.selected, 0)
			m.refreshResults()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.rescan()
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc", "i":
		m.focus = focusEditor
		cmd := m.editor.Focus()
		m.refreshResults()
		return m, cmd
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.results)-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = len(m.results) - 1
	case "c", "y":
		return m, m.copyMatch()
	}
	m.refreshResults()
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render("SafeType Demo")
	subtitle := subtitleStyle.Render("Type below to detect sensitive info locally.")

	border := editorStyle
	if m.focus == focusEditor {
		border = border.BorderForeground(focusColor)
	}
	editor := border.Render(m.editor.View())

	status := statusStyle.Width(m.width).Render(" " + m.statusMessage)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, editor, m.viewport.View(), status)
}
