// Package ui provides the interactive terminal board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/session"
)

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	autosave time.Duration
	logger   *log.Logger
}

// WithAutosave saves dirty state every interval while the TUI runs.
func WithAutosave(interval time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.autosave = interval
	}
}

// WithLogger sets the logger for autosave and save failures.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// Run starts the board TUI on sess and blocks until the user quits.
// The final save is left to the caller's session.Close.
func Run(ctx context.Context, sess *session.Session, opts ...TUIOption) error {
	c := &tuiConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}

	stop := sess.Autosave(ctx, c.autosave)
	defer stop()

	model := NewModel(ctx, sess)
	model.logger = c.logger
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// Model is the bubbletea model of the board view.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	logger *log.Logger
	keys   KeyMap
	help   help.Model
	input  textinput.Model

	// columns caches GetList per list; only lists touched by a mutation
	// are re-read.
	columns [len(board.Lists)][]board.Task
	cursor  [len(board.Lists)]int
	focus   board.List

	mode     mode
	editID   uuid.UUID
	status   string
	failed   bool
	width    int
	quitting bool
}

type savedMsg struct {
	err error
}

// NewModel returns a model showing the board held by sess.
func NewModel(ctx context.Context, sess *session.Session) *Model {
	ti := textinput.New()
	ti.Placeholder = "task text"
	ti.CharLimit = 500
	ti.Prompt = "› "

	m := &Model{
		ctx:    ctx,
		sess:   sess,
		logger: log.New(io.Discard),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		input:  ti,
		focus:  board.Todo,
	}
	m.refresh(board.Lists[:]...)
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save failed", "err", msg.err)
			m.setError(fmt.Errorf("save: %w", msg.err))
		} else {
			m.setStatus("saved")
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.focus = board.List((int(m.focus) + len(board.Lists) - 1) % len(board.Lists))
	case key.Matches(msg, m.keys.Right):
		m.focus = board.List((int(m.focus) + 1) % len(board.Lists))
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.focus] < len(m.columns[m.focus])-1 {
			m.cursor[m.focus]++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = t.ID
		m.input.SetValue(t.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Color):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mutate(func(b *board.Board) error {
			return b.SetColor(t.ID, t.Color.Next())
		}, m.focus)
	case key.Matches(msg, m.keys.MoveUp):
		m.reorder(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.reorder(1)
	case key.Matches(msg, m.keys.Advance):
		m.advance()
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		text := m.input.Value()
		if m.mode == modeAdd {
			var id uuid.UUID
			list := m.focus
			if m.mutate(func(b *board.Board) error {
				id = b.CreateTask(list)
				return b.EditText(id, text)
			}, list) {
				m.cursor[list] = len(m.columns[list]) - 1
				m.setStatus("added " + id.String()[:8])
			}
		} else {
			id := m.editID
			m.mutate(func(b *board.Board) error {
				return b.EditText(id, text)
			}, m.focus)
		}
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		list, pos := m.focus, m.cursor[m.focus]
		var removed board.Task
		if m.mutate(func(b *board.Board) error {
			var err error
			removed, err = b.DeleteTask(list, pos)
			return err
		}, list) {
			m.setStatus("deleted " + removed.Short())
		}
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.No):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.editID = uuid.Nil
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) reorder(delta int) {
	list := m.focus
	from := m.cursor[list]
	to := from + delta
	if to < 0 || to >= len(m.columns[list]) {
		return
	}
	if m.mutate(func(b *board.Board) error {
		return b.ReorderWithinList(list, from, to)
	}, list) {
		m.cursor[list] = to
	}
}

func (m *Model) advance() {
	if _, ok := m.selected(); !ok {
		return
	}
	src, pos := m.focus, m.cursor[m.focus]
	dst := src.Next()
	if m.mutate(func(b *board.Board) error {
		_, err := b.Advance(src, pos)
		return err
	}, src, dst) {
		m.setStatus("moved to " + dst.String())
	}
}

// mutate applies fn through the session and re-reads the given lists.
// It reports whether fn succeeded.
func (m *Model) mutate(fn func(*board.Board) error, lists ...board.List) bool {
	if err := m.sess.Update(fn); err != nil {
		m.setError(err)
		return false
	}
	m.refresh(lists...)
	m.status = ""
	return true
}

func (m *Model) refresh(lists ...board.List) {
	m.sess.View(func(b *board.Board) {
		for _, l := range lists {
			m.columns[l] = b.GetList(l)
		}
	})
	for _, l := range lists {
		if n := len(m.columns[l]); m.cursor[l] >= n {
			m.cursor[l] = max(n-1, 0)
		}
	}
}

func (m *Model) selected() (board.Task, bool) {
	col := m.columns[m.focus]
	i := m.cursor[m.focus]
	if i < 0 || i >= len(col) {
		return board.Task{}, false
	}
	return col[i], true
}

func (m *Model) saveCmd() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return savedMsg{err: sess.Save(ctx)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("kanban"))
	b.WriteString("\n")

	width := 30
	if m.width > 0 {
		width = max((m.width-3*4)/len(board.Lists), 16)
	}
	cols := make([]string, len(board.Lists))
	for i, l := range board.Lists {
		cols[i] = m.renderColumn(l, width)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(promptStyle.Render("New task in " + m.focus.String() + ":"))
		b.WriteString("\n " + m.input.View() + "\n")
	case modeEdit:
		b.WriteString(promptStyle.Render("Edit task:"))
		b.WriteString("\n " + m.input.View() + "\n")
	case modeConfirmDelete:
		t, _ := m.selected()
		b.WriteString(promptStyle.Render(fmt.Sprintf("Delete %q? (y/n)", t.Text)))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = statusErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderColumn(l board.List, width int) string {
	tasks := m.columns[l]
	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", strings.ToUpper(l.String()), len(tasks))))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(emptyStyle.Render("no tasks"))
	}
	for i, t := range tasks {
		selected := l == m.focus && i == m.cursor[l]
		text := t.Text
		if text == "" {
			text = "(empty)"
		}
		b.WriteString(cardStyleFor(t.Color, selected).Width(width - 2).Render(text))
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}

	style := columnStyle
	if l == m.focus {
		style = focusedColumnStyle
	}
	return style.Width(width).Render(b.String())
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
