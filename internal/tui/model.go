package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/filesearch/filesearch/internal/engine"
	"github.com/filesearch/filesearch/internal/report"
)

const previewBytes = 16 << 10

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	previewBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237"))

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)
)

const helpText = "q: quit | s: stop | r: rerun | c: copy path | p: preview | j/k: navigate"

// Engine is the part of engine.Searcher the view drives.
type Engine interface {
	Subscribe(o engine.Observer) (unsubscribe func())
	Run(ctx context.Context, background bool) error
	RequestStop()
	Wait()
	Config() engine.Config
}

type statusMsg string

type runErrMsg struct{ err error }

// Model represents the state of the live search view.
type Model struct {
	ctx    context.Context
	eng    Engine
	events *bridge

	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model
	prefs    Prefs

	runID   string
	matches []string
	files   int64
	dirs    int64
	running bool
	stopped bool
	started time.Time
	elapsed time.Duration

	previewPath   string
	statusMessage string
	width         int
	height        int
	ready         bool
	quitting      bool
}

// NewModel returns a view that starts a background search on Init.
func NewModel(ctx context.Context, eng Engine) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 6},
			{Title: "Path", Width: 60},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return Model{
		ctx:           ctx,
		eng:           eng,
		events:        newBridge(256),
		table:         t,
		viewport:      viewport.New(80, 10),
		spinner:       sp,
		prefs:         LoadPrefs(),
		running:       true,
		started:       time.Now(),
		statusMessage: helpText,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), m.events.listen())
}

func (m Model) startRun() tea.Cmd {
	eng, ctx := m.eng, m.ctx
	return func() tea.Msg {
		if err := eng.Run(ctx, true); err != nil {
			return runErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case eventMsg:
		m.applyEvent(engine.Event(msg))
		return m, m.events.listen()

	case runErrMsg:
		m.running = false
		m.statusMessage = fmt.Sprintf("Search error: %v", msg.err)
		return m, nil

	case statusMsg:
		m.statusMessage = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.eng.RequestStop()
		m.events.close()
		return m, tea.Quit
	case "s":
		if !m.running {
			m.statusMessage = "No search in progress"
			return m, nil
		}
		m.eng.RequestStop()
		m.statusMessage = "Stopping..."
		return m, nil
	case "r":
		if m.running {
			m.statusMessage = "Search in progress, press s to stop it first"
			return m, nil
		}
		m.running = true
		m.stopped = false
		m.started = time.Now()
		m.statusMessage = helpText
		return m, tea.Batch(m.spinner.Tick, m.startRun())
	case "c":
		return m, m.copyPathToClipboard()
	case "p":
		m.prefs.ShowPreview = !m.prefs.ShowPreview
		m.resize(m.width, m.height)
		if err := SavePrefs(m.prefs); err != nil {
			m.statusMessage = fmt.Sprintf("Could not save preferences: %v", err)
		}
		return m, nil
	}

	before := m.table.Cursor()
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		m.updatePreview()
	}
	return m, cmd
}

func (m *Model) applyEvent(e engine.Event) {
	if e.Kind == engine.EventReset {
		m.runID = e.RunID
		m.matches = nil
		m.table.SetRows(nil)
		m.previewPath = ""
		m.viewport.SetContent("")
	} else if e.RunID != m.runID {
		return
	}
	m.files, m.dirs = e.Files, e.Dirs

	switch e.Kind {
	case engine.EventMatch:
		m.matches = append(m.matches, e.Path)
		rows := m.table.Rows()
		rows = append(rows, table.Row{strconv.Itoa(len(m.matches)), e.Path})
		m.table.SetRows(rows)
		if len(m.matches) == 1 {
			// an emptied table clamps its cursor below zero
			m.table.SetCursor(0)
			m.updatePreview()
		}
	case engine.EventStop:
		m.running = false
		m.stopped = e.Stopped
		m.elapsed = time.Since(m.started)
		if e.Stopped {
			m.statusMessage = "Search stopped | " + helpText
		} else {
			m.statusMessage = "Search complete | " + helpText
		}
	}
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	m.ready = true

	cols := m.table.Columns()
	cols[0].Width = 6
	pathWidth := width - cols[0].Width - 8
	if pathWidth < 20 {
		pathWidth = 20
	}
	cols[1].Width = pathWidth
	m.table.SetColumns(cols)
	m.table.SetWidth(width)

	// header, status bar and the table border
	available := height - 2 - tableBorderStyle.GetVerticalFrameSize()
	tableHeight := available
	if m.prefs.ShowPreview {
		tableHeight = available / 2
		m.viewport.Width = width - previewBorderStyle.GetHorizontalFrameSize()
		m.viewport.Height = available - tableHeight - previewBorderStyle.GetVerticalFrameSize()
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
	}
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
}

func (m Model) selectedPath() string {
	row := m.table.SelectedRow()
	if len(row) < 2 {
		return ""
	}
	return row[1]
}

func (m *Model) updatePreview() {
	p := m.selectedPath()
	if p == "" || p == m.previewPath {
		return
	}
	m.previewPath = p
	m.viewport.SetContent(previewText(p))
	m.viewport.GotoTop()
}

// previewText returns the highlighted head of the file at p, or a short
// description when it cannot be shown as text.
func previewText(p string) string {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Sprintf("cannot read %s: %v", p, err)
	}
	if info.IsDir() {
		return "directory " + p
	}
	if !info.Mode().IsRegular() {
		return "not a regular file"
	}
	f, err := os.Open(p)
	if err != nil {
		return fmt.Sprintf("cannot read %s: %v", p, err)
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, previewBytes))
	if err != nil {
		return fmt.Sprintf("cannot read %s: %v", p, err)
	}
	if len(b) == 0 {
		return "(empty file)"
	}
	if bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b) {
		return fmt.Sprintf("binary file, %d bytes", info.Size())
	}
	return highlightCode(string(b), filepath.Base(p))
}

func highlightCode(code string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// copyPathToClipboard copies the selected match to the clipboard.
func (m Model) copyPathToClipboard() tea.Cmd {
	p := m.selectedPath()
	return func() tea.Msg {
		if p == "" {
			return statusMsg("No match selected")
		}
		if err := clipboard.WriteAll(p); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg(fmt.Sprintf("Copied: %s", p))
	}
}

func (m Model) header() string {
	var state string
	switch {
	case m.running:
		state = m.spinner.View() + " Searching"
	case m.stopped:
		state = stoppedStyle.Render("[STOPPED]")
	default:
		state = doneStyle.Render("[DONE]")
	}
	summary := report.Summary(report.Report{Matches: m.matches, Files: m.files, Dirs: m.dirs})
	line := fmt.Sprintf("%s  %s", state, summary)
	if !m.running && m.elapsed > 0 {
		line += fmt.Sprintf("  (%.2fs)", m.elapsed.Seconds())
	}
	if cfg := m.eng.Config(); cfg.Pattern != "" {
		line += fmt.Sprintf("  |  %q in %s", cfg.Pattern, cfg.StartPath)
	}
	return line
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	header := headerStyle.Width(m.width).Render(m.header())

	var body string
	if len(m.matches) == 0 {
		msg := "No matches yet."
		if !m.running {
			msg = "No matches.\n\nPress 'r' to search again"
		}
		body = tableBorderStyle.Width(m.width).Render(lipgloss.Place(
			m.width-tableBorderStyle.GetHorizontalFrameSize(),
			m.table.Height(),
			lipgloss.Center,
			lipgloss.Center,
			emptyTextStyle.Render(msg),
		))
	} else {
		body = tableBorderStyle.Width(m.width).Render(m.table.View())
	}

	parts := []string{header, body}
	if m.prefs.ShowPreview {
		parts = append(parts, previewBorderStyle.
			Width(m.width).
			Height(m.viewport.Height).
			Render(m.viewport.View()))
	}
	parts = append(parts, statusStyle.Width(m.width).Render(m.statusMessage))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
